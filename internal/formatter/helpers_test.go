package formatter

import (
	"encoding/xml"
	"reflect"
)

type greeting struct {
	XMLName xml.Name `xml:"greeting" json:"-" yaml:"-"`
	Message string   `xml:"message" json:"message" yaml:"message"`
	Count   int      `xml:"count" json:"count" yaml:"count"`
}

var (
	greetingType    = reflect.TypeFor[greeting]()
	greetingPtrType = reflect.TypeFor[*greeting]()
	mapType         = reflect.TypeFor[map[string]any]()
	stringType      = reflect.TypeFor[string]()
	funcType        = reflect.TypeFor[func()]()
)
