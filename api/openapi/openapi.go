// Package openapi embeds the API description served by the swagger endpoint.
package openapi

import _ "embed"

//go:embed contacts.swagger.json
var Spec []byte
