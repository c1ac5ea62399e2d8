package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"eventbook/internal/models"
)

// Form is an opaque multipart payload. Send passes it through untouched and
// uses the multipart content type instead of JSON.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	r               io.Reader
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Field appends a text field. Repeated names are sent as repeated parts.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File appends a file part read from r when the form is sent.
func (f *Form) File(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// EventForm builds the multipart payload for creating an event with an
// optional image. image may be nil.
func EventForm(in models.EventInput, filename string, image io.Reader) *Form {
	f := NewForm()
	setIf := func(name, value string) {
		if value != "" {
			f.Field(name, value)
		}
	}
	setIf("name", in.Name)
	setIf("description", in.Description)
	setIf("date", in.Date)
	setIf("venue", in.Venue)
	if in.Price != nil {
		f.Field("price", strconv.FormatFloat(*in.Price, 'f', -1, 64))
	}
	setIf("imageUrl", in.ImageURL)
	setIf("categoryId", in.CategoryID)
	for _, id := range in.TagIDs {
		f.Field("tags", id)
	}
	if image != nil {
		f.File("image", filename, image)
	}
	return f
}
