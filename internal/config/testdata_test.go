package config

// validConfigYAML is a minimal valid configuration for testing.
const validConfigYAML = `
apiVersion: conneg.avapigw.io/v1
kind: ContentNegotiation
metadata:
  name: test
spec:
  languages: [en-US, de]
  formatters:
    - name: json
      kind: json
    - name: xml
      kind: xml
`

// invalidConfigYAML parses but fails validation.
const invalidConfigYAML = `
apiVersion: conneg.avapigw.io/v1
kind: ContentNegotiation
metadata:
  name: ""
spec:
  formatters: []
`
