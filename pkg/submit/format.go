package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format controls how a Result is serialised.
type Format string

const (
	// FormatJSON emits application/json payloads.
	FormatJSON Format = "json"
	// FormatYAML emits YAML documents.
	FormatYAML Format = "yaml"
	// FormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	FormatFormURLEncoded Format = "form"
	// FormatPrettyText emits a human-friendly text summary.
	FormatPrettyText Format = "pretty"
)

// ParseFormat resolves a format name, defaulting to JSON for "".
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatFormURLEncoded, FormatPrettyText:
		return f, nil
	default:
		return "", fmt.Errorf("submit: unknown format %q", raw)
	}
}

// ContentType reports the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case FormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Encode serialises a Result using format.
func Encode(result Result, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(envelopeOf(result))
	case FormatFormURLEncoded:
		return []byte(flattenForm(result.Values())), nil
	case FormatPrettyText:
		return []byte(prettyPrint(result.Values())), nil
	case FormatJSON, "":
		return json.MarshalIndent(envelopeOf(result), "", "  ")
	default:
		return nil, fmt.Errorf("submit: unknown format %q", format)
	}
}

type envelope struct {
	SchemaID     string         `json:"schemaId" yaml:"schemaId"`
	Version      string         `json:"version,omitempty" yaml:"version,omitempty"`
	SessionID    string         `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	SubmissionID string         `json:"submissionId,omitempty" yaml:"submissionId,omitempty"`
	SubmittedAt  string         `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
	Answers      map[string]any `json:"answers" yaml:"answers"`
}

func envelopeOf(result Result) envelope {
	env := envelope{
		SchemaID:     result.SchemaID,
		Version:      result.Version,
		SessionID:    result.SessionID,
		SubmissionID: result.SubmissionID,
		Answers:      result.Values(),
	}
	if !result.SubmittedAt.IsZero() {
		env.SubmittedAt = result.SubmittedAt.UTC().Format(time.RFC3339)
	}
	return env
}

// Writer serialises each result to an io.Writer.
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter returns a Submitter writing results to out in format.
func NewWriter(out io.Writer, format Format) *Writer {
	if format == "" {
		format = FormatJSON
	}
	return &Writer{out: out, format: format}
}

// Submit implements Submitter.
func (w *Writer) Submit(ctx context.Context, result Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.out == nil {
		return fmt.Errorf("submit: writer output is nil")
	}
	payload, err := Encode(result, w.format)
	if err != nil {
		return err
	}
	if len(payload) > 0 && payload[len(payload)-1] != '\n' {
		payload = append(payload, '\n')
	}
	if _, err := w.out.Write(payload); err != nil {
		return fmt.Errorf("submit: write result: %w", err)
	}
	return nil
}

// ContentType reports the MIME type of the payloads this writer emits.
func (w *Writer) ContentType() string {
	return w.format.ContentType()
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(key), val, out)
		}
	case map[string]string:
		for key, val := range v {
			out.Set(join(key), val)
		}
	case map[string][]string:
		for key, vals := range v {
			for _, val := range vals {
				out.Add(join(key)+"[]", val)
			}
		}
	case []string:
		for _, val := range v {
			out.Add(prefix+"[]", val)
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			writePretty(b, join(key), v[key])
		}
	case map[string]string:
		for _, key := range sortedKeys(v) {
			fmt.Fprintf(b, "%s=%s\n", join(key), v[key])
		}
	case map[string][]string:
		for _, key := range sortedKeys(v) {
			fmt.Fprintf(b, "%s=%s\n", join(key), strings.Join(v[key], ", "))
		}
	case []string:
		fmt.Fprintf(b, "%s=%s\n", prefix, strings.Join(v, ", "))
	case nil:
		fmt.Fprintf(b, "%s=\n", prefix)
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
