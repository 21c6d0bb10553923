package compare_test

import (
	"bytes"
	"strconv"

	jsonrnc "github.com/reoring/jsonrnc"
)

// shared fixtures

const bookSchema = `
start = Book
Book = {
  title: string @(minLength = 1)
  author: string
  ISBN: string
  weight: number @(exclusiveMinimum = 0)
  type: BookType
  tags?: [ string ] @(maxItems = 5)
}
BookType = /Paperback/ | /Hardcover/
`

// jsonSchemaBook is bookSchema written as JSON Schema 2020-12.
const jsonSchemaBook = `{
  "type": "object",
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "author": {"type": "string"},
    "ISBN": {"type": "string"},
    "weight": {"type": "number", "exclusiveMinimum": 0},
    "type": {"anyOf": [
      {"type": "string", "pattern": "^(?:Paperback)$"},
      {"type": "string", "pattern": "^(?:Hardcover)$"}
    ]},
    "tags": {"type": "array", "items": {"type": "string"}, "maxItems": 5}
  },
  "required": ["title", "author", "ISBN", "weight", "type"],
  "additionalProperties": false
}`

var bookGrammar = jsonrnc.MustCompile(bookSchema)

func smallBookJSON() []byte {
	return []byte(`{"title":"Go","author":"K&D","ISBN":"978-0134190440","weight":0.8,"type":"Hardcover","tags":["go","lang"]}`)
}

// generateBooks returns a JSON array of numBooks valid books.
func generateBooks(numBooks int) []byte {
	var buf bytes.Buffer
	buf.Grow(numBooks * 128)
	buf.WriteByte('[')
	for i := 0; i < numBooks; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"title":"Book `)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","author":"A`)
		buf.WriteString(strconv.Itoa(i % 97))
		buf.WriteString(`","ISBN":"isbn-`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","weight":`)
		buf.WriteString(strconv.Itoa(i%5 + 1))
		buf.WriteString(`.25,"type":"`)
		if i%2 == 0 {
			buf.WriteString("Paperback")
		} else {
			buf.WriteString("Hardcover")
		}
		buf.WriteString(`","tags":["t`)
		buf.WriteString(strconv.Itoa(i % 7))
		buf.WriteString(`"]}`)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

const (
	cmpHugeN = 10000
)
