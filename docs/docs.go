package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "AQUAVO Support Backend",
    "description": "Conversation escalation scoring and support ticket tracking",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/conversations/{id}/escalation": {"post": {"tags": ["escalation"], "summary": "Evaluate a customer message for escalation"}},
    "/api/support/tickets": {"get": {"tags": ["support"], "summary": "Open support tickets"}},
    "/api/support/tickets/{id}": {"get": {"tags": ["support"], "summary": "Support ticket details"}},
    "/api/support/tickets/{id}/status": {"patch": {"tags": ["support"], "summary": "Update support ticket status"}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
