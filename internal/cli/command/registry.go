package command

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	KindListing = "listing"
	KindDetail  = "detail"
	KindCompose = "compose"
)

var viewField = Field{Name: "view", Aliases: []string{"view_id"}, Prompt: "view_id", Type: FieldString, Required: true}

var directionField = Field{Name: "direction", Aliases: []string{"dir"}, Prompt: "direction (up|down)", Type: FieldString, Required: true}

// Registry returns all CLI commands keyed by "service action".
func Registry() map[string]Command {
	commands := []Command{
		{
			Service:      "questions",
			Action:       "list",
			Method:       http.MethodGet,
			PathTemplate: "/api/v1/questions",
			Fields: []Field{
				{Name: "q", Aliases: []string{"query"}, Prompt: "query", Type: FieldString},
				{Name: "tags", Prompt: "tags (comma-separated)", Type: FieldStringList},
				{Name: "sort", Prompt: "sort", Type: FieldString},
			},
		},
		{
			Service:      "questions",
			Action:       "get",
			Method:       http.MethodGet,
			PathTemplate: "/api/v1/questions/:id",
			Fields: []Field{
				{Name: "id", Aliases: []string{"question_id"}, Prompt: "question_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "users",
			Action:       "list",
			Method:       http.MethodGet,
			PathTemplate: "/api/v1/users",
		},
		{
			Service:      "tags",
			Action:       "list",
			Method:       http.MethodGet,
			PathTemplate: "/api/v1/tags",
		},

		{Service: KindListing, Action: "open", Method: http.MethodPost, PathTemplate: "/api/v1/views/listing", ViewKind: KindListing, Opens: true},
		{Service: KindListing, Action: "show", Method: http.MethodGet, PathTemplate: "/api/v1/views/listing/:view", ViewKind: KindListing, Fields: []Field{viewField}},
		{Service: KindListing, Action: "close", Method: http.MethodDelete, PathTemplate: "/api/v1/views/listing/:view", ViewKind: KindListing, Closes: true, Fields: []Field{viewField}},
		{
			Service:      KindListing,
			Action:       "query",
			Method:       http.MethodPut,
			PathTemplate: "/api/v1/views/listing/:view/query",
			ViewKind:     KindListing,
			Fields: []Field{
				viewField,
				{Name: "query", Aliases: []string{"q"}, Prompt: "query", Type: FieldString},
			},
		},
		{
			Service:      KindListing,
			Action:       "sort",
			Method:       http.MethodPut,
			PathTemplate: "/api/v1/views/listing/:view/sort",
			ViewKind:     KindListing,
			Fields: []Field{
				viewField,
				{Name: "sort", Prompt: "sort (newest|votes|answers|views|unanswered)", Type: FieldString, Required: true},
			},
		},
		{
			Service:      KindListing,
			Action:       "toggle",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/listing/:view/tags/toggle",
			ViewKind:     KindListing,
			Fields: []Field{
				viewField,
				{Name: "tag", Prompt: "tag", Type: FieldString, Required: true},
			},
		},

		{
			Service:      KindDetail,
			Action:       "open",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/questions/:id",
			ViewKind:     KindDetail,
			Opens:        true,
			Fields: []Field{
				{Name: "id", Aliases: []string{"question_id"}, Prompt: "question_id", Type: FieldInt64, Required: true},
			},
		},
		{Service: KindDetail, Action: "show", Method: http.MethodGet, PathTemplate: "/api/v1/views/detail/:view", ViewKind: KindDetail, Fields: []Field{viewField}},
		{Service: KindDetail, Action: "close", Method: http.MethodDelete, PathTemplate: "/api/v1/views/detail/:view", ViewKind: KindDetail, Closes: true, Fields: []Field{viewField}},
		{
			Service:            KindDetail,
			Action:             "vote",
			Method:             http.MethodPost,
			PathTemplate:       "/api/v1/views/detail/:view/vote",
			ViewKind:           KindDetail,
			RequiresCredential: true,
			Fields:             []Field{viewField, directionField},
		},
		{
			Service:      KindDetail,
			Action:       "vote-answer",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/detail/:view/answers/:answer/vote",
			ViewKind:     KindDetail,
			Fields: []Field{
				viewField,
				{Name: "answer", Aliases: []string{"answer_id"}, Prompt: "answer_id", Type: FieldInt64, Required: true},
				directionField,
			},
		},
		{
			Service:      KindDetail,
			Action:       "accept",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/detail/:view/answers/:answer/accept",
			ViewKind:     KindDetail,
			Fields: []Field{
				viewField,
				{Name: "answer", Aliases: []string{"answer_id"}, Prompt: "answer_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      KindDetail,
			Action:       "draft",
			Method:       http.MethodPut,
			PathTemplate: "/api/v1/views/detail/:view/draft",
			ViewKind:     KindDetail,
			Fields: []Field{
				viewField,
				{Name: "content", Prompt: "content", Type: FieldString},
				{Name: "content_file", Prompt: "content_file", Type: FieldFile, Target: "content"},
			},
		},
		{
			Service:      KindDetail,
			Action:       "submit",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/detail/:view/answers",
			ViewKind:     KindDetail,
			Fields: []Field{
				viewField,
				{Name: "content", Prompt: "content", Type: FieldString},
				{Name: "content_file", Prompt: "content_file", Type: FieldFile, Target: "content"},
			},
		},

		{Service: KindCompose, Action: "open", Method: http.MethodPost, PathTemplate: "/api/v1/views/compose", ViewKind: KindCompose, Opens: true},
		{Service: KindCompose, Action: "show", Method: http.MethodGet, PathTemplate: "/api/v1/views/compose/:view", ViewKind: KindCompose, Fields: []Field{viewField}},
		{Service: KindCompose, Action: "close", Method: http.MethodDelete, PathTemplate: "/api/v1/views/compose/:view", ViewKind: KindCompose, Closes: true, Fields: []Field{viewField}},
		{
			Service:      KindCompose,
			Action:       "update",
			Method:       http.MethodPut,
			PathTemplate: "/api/v1/views/compose/:view",
			ViewKind:     KindCompose,
			Fields: []Field{
				viewField,
				{Name: "title", Prompt: "title", Type: FieldString},
				{Name: "description", Aliases: []string{"desc"}, Prompt: "description", Type: FieldString},
				{Name: "description_file", Prompt: "description_file", Type: FieldFile, Target: "description"},
			},
		},
		{
			Service:      KindCompose,
			Action:       "tag-add",
			Method:       http.MethodPost,
			PathTemplate: "/api/v1/views/compose/:view/tags",
			ViewKind:     KindCompose,
			Fields: []Field{
				viewField,
				{Name: "tag", Prompt: "tag", Type: FieldString, Required: true},
			},
		},
		{
			Service:      KindCompose,
			Action:       "tag-remove",
			Method:       http.MethodDelete,
			PathTemplate: "/api/v1/views/compose/:view/tags/:tag",
			ViewKind:     KindCompose,
			Fields: []Field{
				viewField,
				{Name: "tag", Prompt: "tag", Type: FieldString, Required: true},
			},
		},
		{Service: KindCompose, Action: "submit", Method: http.MethodPost, PathTemplate: "/api/v1/views/compose/:view/submit", ViewKind: KindCompose, Fields: []Field{viewField}},
	}

	result := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		result[cmd.Key()] = cmd
	}
	return result
}

// Keys lists registry keys in sorted order.
func Keys(commands map[string]Command) []string {
	keys := make([]string, 0, len(commands))
	for key := range commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// BuildRequest creates HTTP request spec based on command.
func BuildRequest(cmd Command, params Params) (RequestSpec, error) {
	params.Canonicalize(cmd.Fields)
	path, err := buildPath(cmd.PathTemplate, params)
	if err != nil {
		return RequestSpec{}, err
	}

	var body []byte
	if cmd.Method == http.MethodGet {
		if query := buildQuery(cmd, params); query != "" {
			path += "?" + query
		}
	} else if cmd.Method != http.MethodDelete {
		payload, err := buildPayload(cmd, params)
		if err != nil {
			return RequestSpec{}, err
		}
		if len(payload) > 0 {
			body, err = json.Marshal(payload)
			if err != nil {
				return RequestSpec{}, fmt.Errorf("marshal request body failed: %w", err)
			}
		}
	}

	return RequestSpec{
		Method:  cmd.Method,
		Path:    path,
		Headers: map[string]string{},
		Body:    body,
	}, nil
}

func isPathParam(template, name string) bool {
	for _, segment := range strings.Split(template, "/") {
		if segment == ":"+name {
			return true
		}
	}
	return false
}

func buildPath(template string, params Params) (string, error) {
	segments := strings.Split(template, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		key := strings.TrimPrefix(segment, ":")
		value := strings.TrimSpace(params.Get(key))
		if value == "" {
			return "", fmt.Errorf("missing path parameter: %s", key)
		}
		if key == "id" || key == "answer" {
			if _, err := ParseInt64(value); err != nil {
				return "", fmt.Errorf("invalid %s: %w", key, err)
			}
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}

func buildQuery(cmd Command, params Params) string {
	values := url.Values{}
	for _, field := range cmd.Fields {
		if isPathParam(cmd.PathTemplate, field.Name) {
			continue
		}
		value := params.Get(field.Name)
		if value == "" {
			continue
		}
		if field.Type == FieldStringList {
			value = strings.Join(ParseStringList(value), ",")
		}
		values.Set(field.Name, value)
	}
	return values.Encode()
}

// buildPayload sends only the fields the user gave so omitted fields stay unset on the server.
func buildPayload(cmd Command, params Params) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	for _, field := range cmd.Fields {
		if isPathParam(cmd.PathTemplate, field.Name) || !params.Has(field.Name) {
			continue
		}
		value := params.Get(field.Name)
		switch field.Type {
		case FieldFile:
			if value == "" {
				continue
			}
			content, err := ReadFile(value)
			if err != nil {
				return nil, err
			}
			payload[field.Target] = content
		case FieldInt64:
			n, err := ParseInt64(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", field.Name, err)
			}
			payload[field.Name] = n
		case FieldStringList:
			payload[field.Name] = ParseStringList(value)
		default:
			if _, set := payload[field.Name]; set {
				continue
			}
			payload[field.Name] = value
		}
	}
	return payload, nil
}
