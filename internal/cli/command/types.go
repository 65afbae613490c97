package command

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FieldType describes input type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt64
	FieldStringList
	// FieldFile is read from disk and sent under the field's Target name.
	FieldFile
)

// Field defines a CLI input field.
type Field struct {
	Name     string
	Aliases  []string
	Prompt   string
	Type     FieldType
	Required bool
	Target   string
}

// Command defines a CLI command binding.
type Command struct {
	Service      string
	Action       string
	Method       string
	PathTemplate string
	// ViewKind names the view resource the command addresses, if any.
	ViewKind string
	// Opens marks commands whose response carries a new view id.
	Opens              bool
	Closes             bool
	RequiresCredential bool
	Fields             []Field
}

// Key is the registry key, "service action".
func (c Command) Key() string {
	return fmt.Sprintf("%s %s", c.Service, c.Action)
}

// RequestSpec is the built HTTP request.
type RequestSpec struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// Params holds parsed input params.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

func (p Params) Canonicalize(fields []Field) {
	for _, field := range fields {
		for _, alias := range field.Aliases {
			aliasKey := strings.ToLower(alias)
			if value, ok := p[aliasKey]; ok {
				p[strings.ToLower(field.Name)] = value
				delete(p, aliasKey)
			}
		}
	}
}

// ParseArgs splits key=value tokens into Params.
func ParseArgs(tokens []string) (Params, error) {
	params := Params{}
	for _, token := range tokens {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid param: %s", token)
		}
		params.Set(parts[0], parts[1])
	}
	return params, nil
}

func ParseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func ParseStringList(value string) []string {
	raw := strings.Split(value, ",")
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file failed: %w", err)
	}
	return string(data), nil
}
