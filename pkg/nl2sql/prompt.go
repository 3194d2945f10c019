// Package nl2sql holds helpers shared by the pipeline stages.
package nl2sql

import "strings"

// RenderPrompt substitutes every {placeholder} key in vars into template.
func RenderPrompt(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
