package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Formatter transforms output into a specific format.
type Formatter interface {
	// Format transforms the result into the desired output format
	Format(result any) ([]byte, error)

	// Name returns the formatter name (e.g., "json", "yaml")
	Name() string

	// Description returns help text for --help
	Description() string
}

// Registry manages available formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry with built-in formatters.
func NewRegistry() *Registry {
	r := &Registry{
		formatters: make(map[string]Formatter),
	}
	// Register built-in formatters
	r.Register(&JSONFormatter{Pretty: true})
	r.Register(&YAMLFormatter{})
	r.Register(&MarkdownFormatter{})
	r.Register(NewTextFormatter(false))
	return r
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Name()] = f
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Check for built-in formatter
	if f, ok := r.formatters[name]; ok {
		return f, nil
	}

	// Check for template: prefix
	if strings.HasPrefix(name, "template:") {
		tmplPath := strings.TrimPrefix(name, "template:")
		return NewTemplateFormatter(tmplPath)
	}

	// Check for plugin: prefix
	if strings.HasPrefix(name, "plugin:") {
		pluginName := strings.TrimPrefix(name, "plugin:")
		return NewPluginFormatter(pluginName)
	}

	// Try to find as external plugin
	if cmd := findPlugin(name); cmd != "" {
		return &PluginFormatter{Command: cmd}, nil
	}

	return nil, fmt.Errorf("formatter %q not found", name)
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns all formatters sorted by name.
func (r *Registry) All() []Formatter {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	formatters := make([]Formatter, 0, len(names))
	for _, name := range names {
		formatters = append(formatters, r.formatters[name])
	}
	return formatters
}

// JSONFormatter outputs JSON.
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) Name() string        { return "json" }
func (f *JSONFormatter) Description() string { return "JSON output" }

func (f *JSONFormatter) Format(result any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if f.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Name() string        { return "yaml" }
func (f *YAMLFormatter) Description() string { return "YAML output" }

func (f *YAMLFormatter) Format(result any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarkdownFormatter outputs Markdown tables and lists.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Name() string        { return "markdown" }
func (f *MarkdownFormatter) Description() string { return "Markdown tables and lists" }

func (f *MarkdownFormatter) Format(result any) ([]byte, error) {
	var buf bytes.Buffer

	switch v := result.(type) {
	case *ResolveResponse:
		f.formatResolve(&buf, v)
	case []*ResolveResponse:
		for i, r := range v {
			if i > 0 {
				buf.WriteString("\n---\n\n")
			}
			f.formatResolve(&buf, r)
		}
	case *RulesResponse:
		f.formatRules(&buf, v)
	case *FormatsResponse:
		buf.WriteString("# Formats\n\n")
		buf.WriteString("| Name | Description |\n")
		buf.WriteString("|------|-------------|\n")
		for _, fi := range v.Formats {
			buf.WriteString(fmt.Sprintf("| %s | %s |\n", fi.Name, fi.Description))
		}
	case *VersionResponse:
		buf.WriteString(fmt.Sprintf("# scssexpand %s\n\n", v.Version))
		if v.Commit != "" {
			buf.WriteString(fmt.Sprintf("- **Commit:** %s\n", v.Commit))
		}
		buf.WriteString(fmt.Sprintf("- **Go:** %s\n", v.GoVersion))
	case *ErrorResponse:
		buf.WriteString(fmt.Sprintf("# Error\n\n**%s**\n\n", v.Error.Message))
		if len(v.Error.Suggestions) > 0 {
			buf.WriteString("Did you mean:\n")
			for _, s := range v.Error.Suggestions {
				buf.WriteString(fmt.Sprintf("- %s\n", s))
			}
		}
	default:
		// Unknown shapes render as a YAML block
		data, err := (&YAMLFormatter{}).Format(result)
		if err != nil {
			return nil, err
		}
		buf.WriteString("```yaml\n")
		buf.Write(data)
		buf.WriteString("```\n")
	}

	return buf.Bytes(), nil
}

func (f *MarkdownFormatter) formatResolve(buf *bytes.Buffer, r *ResolveResponse) {
	buf.WriteString(fmt.Sprintf("# Resolve: %s:%d:%d\n\n", r.Position.File, r.Position.Line, r.Position.Column))
	if r.Selector == "" {
		buf.WriteString("_No enclosing rule._\n\n")
	} else {
		buf.WriteString(fmt.Sprintf("`%s`\n\n", escapeCode(r.Selector)))
	}

	if len(r.Alternatives) > 1 {
		buf.WriteString("## Alternatives\n\n")
		for _, alt := range r.Alternatives {
			buf.WriteString(fmt.Sprintf("- `%s`\n", escapeCode(alt)))
		}
		buf.WriteString("\n")
	}

	if t := r.Trace; t != nil {
		buf.WriteString("## Trace\n\n")
		buf.WriteString("| Stage | Value |\n")
		buf.WriteString("|-------|-------|\n")
		buf.WriteString(fmt.Sprintf("| Comments | %d |\n", len(t.Comments)))
		buf.WriteString(fmt.Sprintf("| Frames | %s |\n", codeList(t.Frames)))
		if t.AtRoot != nil {
			buf.WriteString(fmt.Sprintf("| At-root | `%s` (frame %d) |\n", escapeCode(t.AtRoot.String()), t.AtRoot.Frame))
		}
		buf.WriteString(fmt.Sprintf("| Filtered | %s |\n", codeList(t.Filtered)))
		buf.WriteString("\n")
	}

	if r.Snippet != nil {
		writeSnippet(buf, "## Source", r.Snippet)
	}
}

func (f *MarkdownFormatter) formatRules(buf *bytes.Buffer, r *RulesResponse) {
	title := r.Query.Target
	if title == "" {
		title = strings.Join(r.Query.Files, ", ")
	}
	buf.WriteString(fmt.Sprintf("# %s: %s\n\n", capitalize(r.Query.Command), title))

	if len(r.Results) > 0 {
		buf.WriteString("| Selector | Location | Depth |\n")
		buf.WriteString("|----------|----------|-------|\n")
		for _, res := range r.Results {
			location := res.Location
			// Shorten file path
			if len(location) > 40 {
				location = "..." + location[len(location)-37:]
			}
			buf.WriteString(fmt.Sprintf("| `%s` | %s | %d |\n", escapeCode(res.Selector), location, res.Depth))
		}
		buf.WriteString("\n")

		hasSnippets := slices.ContainsFunc(r.Results, func(res RuleResult) bool { return res.Snippet != nil })
		if hasSnippets {
			buf.WriteString("## Snippets\n\n")
			for i, res := range r.Results {
				if res.Snippet == nil {
					continue
				}
				writeSnippet(buf, fmt.Sprintf("### %d. %s", i+1, res.Snippet.Location), res.Snippet)
			}
		}
	}

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("- **files**: %d\n", r.Summary.Files))
	buf.WriteString(fmt.Sprintf("- **count**: %d\n", r.Summary.Count))
	buf.WriteString(fmt.Sprintf("- **truncated**: %t\n", r.Summary.Truncated))
}

func writeSnippet(buf *bytes.Buffer, header string, s *Snippet) {
	buf.WriteString(header + "\n\n")
	buf.WriteString("```scss\n")
	buf.WriteString(s.Source)
	if !strings.HasSuffix(s.Source, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("```\n\n")
}

// escapeCode escapes pipes so selectors survive inside table cells.
func escapeCode(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + escapeCode(s) + "`"
	}
	return strings.Join(quoted, " → ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TextFormatter prints bare selectors for editors and shell pipelines.
type TextFormatter struct {
	selector *color.Color
	location *color.Color
	heading  *color.Color
	faint    *color.Color
	errColor *color.Color
}

// NewTextFormatter creates a text formatter. Colors are only emitted when
// enabled is true.
func NewTextFormatter(enabled bool) *TextFormatter {
	f := &TextFormatter{
		selector: color.New(color.Bold, color.FgHiGreen),
		location: color.New(color.FgHiBlue),
		heading:  color.New(color.Bold),
		faint:    color.New(color.Faint),
		errColor: color.New(color.Bold, color.FgRed),
	}
	for _, c := range []*color.Color{f.selector, f.location, f.heading, f.faint, f.errColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

func (f *TextFormatter) Name() string        { return "text" }
func (f *TextFormatter) Description() string { return "Plain selectors, one per line (default)" }

func (f *TextFormatter) Format(result any) ([]byte, error) {
	var buf bytes.Buffer

	switch v := result.(type) {
	case *ResolveResponse:
		f.formatResolve(&buf, v)
	case []*ResolveResponse:
		for _, r := range v {
			f.formatResolve(&buf, r)
		}
	case *RulesResponse:
		for _, res := range v.Results {
			buf.WriteString(f.location.Sprint(res.Location))
			buf.WriteString("\t")
			buf.WriteString(f.selector.Sprint(res.Selector))
			if res.Matched != "" && res.Matched != res.Selector {
				buf.WriteString(f.faint.Sprintf("  (%s)", res.Matched))
			}
			buf.WriteString("\n")
			if res.Snippet != nil {
				buf.WriteString(indent(res.Snippet.Source, "    "))
			}
		}
	case *FormatsResponse:
		for _, fi := range v.Formats {
			buf.WriteString(fmt.Sprintf("%-10s %s\n", f.heading.Sprint(fi.Name), fi.Description))
		}
	case *VersionResponse:
		buf.WriteString(fmt.Sprintf("scssexpand %s", v.Version))
		if v.Commit != "" {
			buf.WriteString(f.faint.Sprintf(" (%s)", v.Commit))
		}
		buf.WriteString(fmt.Sprintf(" %s\n", v.GoVersion))
	case *ErrorResponse:
		buf.WriteString(f.errColor.Sprint("error: "))
		buf.WriteString(v.Error.Message)
		buf.WriteString("\n")
		for _, s := range v.Error.Suggestions {
			buf.WriteString(fmt.Sprintf("  did you mean: %s\n", f.selector.Sprint(s)))
		}
	default:
		return (&YAMLFormatter{}).Format(result)
	}

	return buf.Bytes(), nil
}

func (f *TextFormatter) formatResolve(buf *bytes.Buffer, r *ResolveResponse) {
	if t := r.Trace; t != nil {
		buf.WriteString(f.heading.Sprint("frames:"))
		buf.WriteString("\n")
		for i, frame := range t.Frames {
			buf.WriteString(fmt.Sprintf("  %d  %s\n", i, frame))
		}
		if t.AtRoot != nil {
			buf.WriteString(f.heading.Sprint("at-root:"))
			buf.WriteString(fmt.Sprintf(" %s (frame %d)\n", t.AtRoot, t.AtRoot.Frame))
			buf.WriteString(f.heading.Sprint("filtered:"))
			buf.WriteString("\n")
			for i, frame := range t.Filtered {
				buf.WriteString(fmt.Sprintf("  %d  %s\n", i, frame))
			}
		}
		buf.WriteString(f.heading.Sprint("selector:"))
		buf.WriteString(" ")
	}

	buf.WriteString(f.selector.Sprint(r.Selector))
	buf.WriteString("\n")

	if r.Snippet != nil {
		buf.WriteString(f.faint.Sprint(r.Snippet.Location))
		buf.WriteString("\n")
		buf.WriteString(indent(r.Snippet.Source, "    "))
	}
}

func indent(s, prefix string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// TemplateFormatter uses Go templates.
type TemplateFormatter struct {
	path string
	tmpl *template.Template
}

func NewTemplateFormatter(path string) (*TemplateFormatter, error) {
	tmpl, err := template.New(filepath.Base(path)).Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	return &TemplateFormatter{path: path, tmpl: tmpl}, nil
}

func (f *TemplateFormatter) Name() string        { return "template:" + f.path }
func (f *TemplateFormatter) Description() string { return "Custom Go template" }

func (f *TemplateFormatter) Format(result any) ([]byte, error) {
	// Convert to generic JSON shape so templates use the JSON field names
	var data any
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// PluginFormatter runs an external plugin.
type PluginFormatter struct {
	Command string
	Args    []string
}

func NewPluginFormatter(name string) (*PluginFormatter, error) {
	cmd := findPlugin(name)
	if cmd == "" {
		return nil, fmt.Errorf("plugin %q not found", name)
	}
	return &PluginFormatter{Command: cmd}, nil
}

func (f *PluginFormatter) Name() string        { return "plugin:" + filepath.Base(f.Command) }
func (f *PluginFormatter) Description() string { return "External plugin" }

func (f *PluginFormatter) Format(result any) ([]byte, error) {
	// Marshal result to JSON
	input, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	// Run plugin
	cmd := exec.Command(f.Command, f.Args...)
	cmd.Stdin = bytes.NewReader(input)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("plugin failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("running plugin: %w", err)
	}

	return output, nil
}

// findPlugin searches for a plugin binary.
func findPlugin(name string) string {
	binName := "scssexpand-format-" + name

	// Check PATH
	if path, err := exec.LookPath(binName); err == nil {
		return path
	}

	// Check ~/.config/scssexpand/plugins/
	if home, err := os.UserHomeDir(); err == nil {
		pluginPath := filepath.Join(home, ".config", "scssexpand", "plugins", binName)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath
		}
	}

	return ""
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()
