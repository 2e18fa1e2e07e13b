package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBook(t *testing.T) {
	assert.Equal(t, "B001,Dune,Herbert,SF,True",
		EncodeBook(&Book{ID: "B001", Title: "Dune", Author: "Herbert", Genre: "SF", Available: true}))
	assert.Equal(t, "B002,Emma,Austen,Classic,False",
		EncodeBook(&Book{ID: "B002", Title: "Emma", Author: "Austen", Genre: "Classic"}))
}

func TestDecodeBook(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		want      *Book
		malformed bool
	}{
		{
			name: "available",
			line: "B001,Dune,Herbert,SF,True",
			want: &Book{ID: "B001", Title: "Dune", Author: "Herbert", Genre: "SF", Available: true},
		},
		{
			name: "unavailable",
			line: "B002,Emma,Austen,Classic,False",
			want: &Book{ID: "B002", Title: "Emma", Author: "Austen", Genre: "Classic"},
		},
		{
			name: "only_True_means_available",
			line: "B003,Ubik,Dick,SF,true",
			want: &Book{ID: "B003", Title: "Ubik", Author: "Dick", Genre: "SF"},
		},
		{
			name: "trailing_newline",
			line: "B004,Walden,Thoreau,Essay,True\r\n",
			want: &Book{ID: "B004", Title: "Walden", Author: "Thoreau", Genre: "Essay", Available: true},
		},
		{
			name: "empty_fields_allowed",
			line: "B005,,,,False",
			want: &Book{ID: "B005"},
		},
		{name: "too_few_fields", line: "B001,Dune,Herbert,True", malformed: true},
		{name: "comma_in_title", line: "B001,Dune, Messiah,Herbert,SF,True", malformed: true},
		{name: "empty_id", line: ",Dune,Herbert,SF,True", malformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBook(tt.line)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedRecord)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeMember(t *testing.T) {
	assert.Equal(t, "M001,Alice,", EncodeMember(&Member{ID: "M001", Name: "Alice", Borrowed: []string{}}))
	assert.Equal(t, "M002,Bob,B001,B003",
		EncodeMember(&Member{ID: "M002", Name: "Bob", Borrowed: []string{"B001", "B003"}}))
}

func TestDecodeMember(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		want      *Member
		malformed bool
	}{
		{
			name: "nothing_borrowed",
			line: "M001,Alice,",
			want: &Member{ID: "M001", Name: "Alice", Borrowed: []string{}},
		},
		{
			name: "borrowed_list",
			line: "M002,Bob,B001,B003",
			want: &Member{ID: "M002", Name: "Bob", Borrowed: []string{"B001", "B003"}},
		},
		{
			name: "comma_space_list",
			line: "M003,Carol,B001, B002",
			want: &Member{ID: "M003", Name: "Carol", Borrowed: []string{"B001", "B002"}},
		},
		{
			name: "blank_ids_dropped",
			line: "M004,Dan,,B005,",
			want: &Member{ID: "M004", Name: "Dan", Borrowed: []string{"B005"}},
		},
		{name: "missing_borrowed_field", line: "M001,Alice", malformed: true},
		{name: "id_only", line: "M001", malformed: true},
		{name: "empty_id", line: ",Alice,", malformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMember(tt.line)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnencodable(t *testing.T) {
	assert.False(t, unencodable("Dune", "Frank Herbert"))
	assert.True(t, unencodable("Dune", "Herbert, Frank"))
	assert.True(t, unencodable("two\nlines"))
}
