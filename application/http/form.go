package http

import (
	"net/url"
	"sort"
	"strings"
)

const FormContentType = "application/x-www-form-urlencoded"

type FormField struct {
	Key    string
	Values []string
}

// Form is an ordered set of form fields. Encoding keeps the order fields were added in.
type Form []FormField

// Add appends value to the field named key, adding the field if it is new.
func (f *Form) Add(key, value string) {
	for idx := range *f {
		if (*f)[idx].Key == key {
			(*f)[idx].Values = append((*f)[idx].Values, value)
			return
		}
	}
	*f = append(*f, FormField{Key: key, Values: []string{value}})
}

// Encode serializes the form as application/x-www-form-urlencoded.
// A field with several values is written once per value.
//
// Reference: https://url.spec.whatwg.org/#concept-urlencoded-serializer
func (f Form) Encode() string {
	var b strings.Builder
	for _, field := range f {
		key := url.QueryEscape(field.Key)
		for _, v := range field.Values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// FormFromValues orders fields by key.
func FormFromValues(values url.Values) Form {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	form := make(Form, 0, len(keys))
	for _, k := range keys {
		form = append(form, FormField{Key: k, Values: append([]string(nil), values[k]...)})
	}
	return form
}
