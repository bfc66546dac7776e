// Package config provides the configuration model of the content
// negotiation server.
//
// A configuration is a single YAML document:
//
//	apiVersion: conneg.avapigw.io/v1
//	kind: ContentNegotiation
//	metadata:
//	  name: demo
//	spec:
//	  server:
//	    address: ":8080"
//	  languages: [en, de]
//	  formatters:
//	    - name: json
//	      kind: json
//	    - name: xml
//	      kind: xml
//
// Values may reference environment variables with ${VAR} or
// ${VAR:-default}; "$$" escapes a literal dollar sign.
//
// # Loading
//
//	cfg, err := config.LoadConfig("conneg.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Watching
//
// Watcher reloads and re-validates the file on change and hands the new
// configuration to a callback. Invalid files are reported through the error
// callback and the previous configuration stays in effect.
package config
