package backend

import (
	"bytes"
	"io"
	"mime/multipart"
	"strconv"
)

// form is an ordered multipart/form-data body.
type form struct {
	fields [][2]string
}

func newForm() *form { return &form{} }

func (f *form) set(name, value string) *form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

// setNonEmpty adds the field only when value is not empty.
func (f *form) setNonEmpty(name, value string) *form {
	if value == "" {
		return f
	}
	return f.set(name, value)
}

func (f *form) setInt(name string, value int) *form {
	return f.set(name, strconv.Itoa(value))
}

// setID adds the field only when id is set.
func (f *form) setID(name string, id int) *form {
	if id == 0 {
		return f
	}
	return f.setInt(name, id)
}

func (f *form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range f.fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
