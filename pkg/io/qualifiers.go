package io

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed qualifiers.yaml
var qualifiersYAML []byte

var qualifiers = sync.OnceValue(func() map[int]string {
	m := make(map[int]string)
	if err := yaml.Unmarshal(qualifiersYAML, &m); err != nil {
		panic("io: invalid embedded qualifier table: " + err.Error())
	}
	return m
})

// QualifierText returns the registry description of a qualifier code.
// Code 0 and unknown codes yield the empty string.
func QualifierText(code int) string {
	if code == 0 {
		return ""
	}
	return qualifiers()[code]
}
