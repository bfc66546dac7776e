package main

import (
	"encoding/xml"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// message is the body of /echo.
type message struct {
	XMLName  xml.Name `xml:"message" json:"-" yaml:"-"`
	Text     string   `xml:"text" json:"text" yaml:"text"`
	Language string   `xml:"language,omitempty" json:"language,omitempty" yaml:"language,omitempty"`
}

// String renders the message for text/plain.
func (m message) String() string {
	return m.Text
}

// greeting is the body of /greeting.
type greeting struct {
	XMLName  xml.Name `xml:"greeting" json:"-" yaml:"-"`
	Message  string   `xml:"message" json:"message" yaml:"message"`
	Language string   `xml:"language" json:"language" yaml:"language"`
}

// String renders the greeting for text/plain.
func (g greeting) String() string {
	return g.Message
}

// typeInfo is the body of /types.
type typeInfo struct {
	XMLName    xml.Name `xml:"type" json:"-" yaml:"-"`
	Name       string   `xml:"name" json:"name" yaml:"name"`
	MediaTypes []string `xml:"mediaTypes>mediaType" json:"mediaTypes" yaml:"mediaTypes"`
}

// formatterInfo describes one configured formatter.
type formatterInfo struct {
	Name             string   `xml:"name,attr" json:"name" yaml:"name"`
	MediaTypes       []string `xml:"mediaType" json:"mediaTypes" yaml:"mediaTypes"`
	Encodings        []string `xml:"encoding,omitempty" json:"encodings,omitempty" yaml:"encodings,omitempty"`
	DefaultMediaType string   `xml:"defaultMediaType" json:"defaultMediaType" yaml:"defaultMediaType"`
	DefaultEncoding  string   `xml:"defaultEncoding,omitempty" json:"defaultEncoding,omitempty" yaml:"defaultEncoding,omitempty"`
}

// formatterList is the body of /formatters.
type formatterList struct {
	XMLName    xml.Name        `xml:"formatters" json:"-" yaml:"-"`
	Formatters []formatterInfo `xml:"formatter" json:"formatters" yaml:"formatters"`
}

// greetings holds the greeting per base language.
var greetings = map[string]string{
	"en": "Hello",
	"de": "Hallo",
	"fr": "Bonjour",
	"es": "Hola",
	"it": "Ciao",
	"nl": "Hallo",
	"ja": "こんにちは",
}

// fallbackGreetingLanguage answers when no supported language matched.
const fallbackGreetingLanguage = "en"

// exampleTypes are the types /types can describe.
var exampleTypes = map[string]reflect.Type{
	"message":  reflect.TypeFor[message](),
	"greeting": reflect.TypeFor[greeting](),
	"text":     reflect.TypeFor[string](),
	"bytes":    reflect.TypeFor[[]byte](),
}

// handleEcho decodes a message with the reader negotiated from Content-Type
// and writes it back in the representation negotiated from Accept.
func (a *application) handleEcho(c *gin.Context) {
	b := a.currentBinder()

	var m message
	result, err := b.Decode(c.Request, &m)
	if err != nil {
		b.AbortGin(c, err)
		return
	}
	if m.Language == "" {
		m.Language = result.Language
	}

	b.RenderGin(c, http.StatusOK, m)
}

// handleEchoRaw reads the body as bytes, which works without a Content-Type,
// and writes them back with the negotiated byte-capable formatter.
func (a *application) handleEchoRaw(c *gin.Context) {
	b := a.currentBinder()

	var data []byte
	if err := b.BindGin(c, &data); err != nil {
		return
	}

	b.RenderGin(c, http.StatusOK, data)
}

// handleGreeting greets in the language negotiated from Accept-Language.
func (a *application) handleGreeting(c *gin.Context) {
	b := a.currentBinder()

	lang, err := b.Language(c.Request)
	if err != nil {
		b.AbortGin(c, err)
		return
	}

	b.RenderGin(c, http.StatusOK, greetingFor(lang))
}

// greetingFor returns the greeting for a negotiated language, matching on
// the base language so that "de-CH" is greeted in German.
func greetingFor(lang string) greeting {
	if lang != "" {
		tag, err := language.Parse(lang)
		if err == nil {
			base, _ := tag.Base()
			if text, ok := greetings[base.String()]; ok {
				return greeting{Message: text, Language: lang}
			}
		}
	}
	return greeting{Message: greetings[fallbackGreetingLanguage], Language: fallbackGreetingLanguage}
}

// handleTypes lists the media types a response of the named type could be
// written as.
func (a *application) handleTypes(c *gin.Context) {
	b := a.currentBinder()

	name := c.DefaultQuery("name", "greeting")
	t, ok := exampleTypes[name]
	if !ok {
		c.String(http.StatusNotFound, "unknown type %q", name)
		return
	}

	b.RenderGin(c, http.StatusOK, typeInfo{
		Name:       name,
		MediaTypes: b.Negotiator().AcceptableResponseMediaTypes(t),
	})
}

// handleFormatters lists the configured formatters in preference order.
func (a *application) handleFormatters(c *gin.Context) {
	b := a.currentBinder()

	var list formatterList
	for _, f := range b.Registry().Formatters() {
		list.Formatters = append(list.Formatters, formatterInfo{
			Name:             f.Name(),
			MediaTypes:       f.SupportedMediaTypes(),
			Encodings:        f.SupportedEncodings(),
			DefaultMediaType: f.DefaultMediaType(),
			DefaultEncoding:  f.DefaultEncoding(),
		})
	}

	b.RenderGin(c, http.StatusOK, list)
}
