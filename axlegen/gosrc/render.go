package gosrc

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"
)

// Render prints f and formats the result. filename is only used in error
// messages.
func Render(filename string, f *File) ([]byte, error) {
	src := Print(f)
	out, err := imports.Process(filename, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, errors.WithDetail(errors.Wrapf(err, "format %s", filename), string(src))
	}
	return out, nil
}

// Print writes f as unformatted Go source.
func Print(f *File) []byte {
	var buf bytes.Buffer

	for _, line := range f.Header {
		writeComment(&buf, line)
	}
	if len(f.Header) > 0 {
		buf.WriteByte('\n')
	}
	gen := f.Generator
	if gen == "" {
		gen = "axlegen"
	}
	buf.WriteString("// Code generated by " + gen + ". DO NOT EDIT.\n\n")

	writeDoc(&buf, f.Doc)
	buf.WriteString("package " + f.Package + "\n\n")

	if len(f.Imports) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range f.Imports {
			if imp.Name != "" {
				buf.WriteString(imp.Name + " ")
			}
			buf.WriteString(strconv.Quote(imp.Path) + "\n")
		}
		buf.WriteString(")\n\n")
	}

	for _, d := range f.Decls {
		switch d := d.(type) {
		case *Type:
			printType(&buf, d)
		case *Func:
			printFunc(&buf, d)
		case *Var:
			printVar(&buf, d)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func printType(buf *bytes.Buffer, t *Type) {
	writeDoc(buf, t.Doc)
	buf.WriteString("type " + t.Name + t.TypeParams + " ")
	switch {
	case t.Struct != nil:
		buf.WriteString("struct {\n")
		for _, f := range t.Struct.Fields {
			writeDoc(buf, f.Doc)
			if f.Name != "" {
				buf.WriteString(f.Name + " ")
			}
			buf.WriteString(f.Type + "\n")
		}
		buf.WriteString("}\n")
	case t.Interface != nil:
		buf.WriteString("interface {\n")
		for _, e := range t.Interface.Embeds {
			buf.WriteString(e + "\n")
		}
		for _, m := range t.Interface.Methods {
			writeDoc(buf, m.Doc)
			buf.WriteString(m.Name + "(" + params(m.Params) + ")")
			if m.Results != "" {
				buf.WriteString(" " + m.Results)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("}\n")
	}
}

func printFunc(buf *bytes.Buffer, f *Func) {
	writeDoc(buf, f.Doc)
	buf.WriteString("func ")
	if f.Recv != nil {
		buf.WriteString("(" + f.Recv.Name + " " + f.Recv.Type + ") ")
	}
	buf.WriteString(f.Name + f.TypeParams + "(" + params(f.Params) + ")")
	if f.Results != "" {
		buf.WriteString(" " + f.Results)
	}
	buf.WriteString(" {\n")
	for _, stmt := range f.Body {
		buf.WriteString(stmt + "\n")
	}
	buf.WriteString("}\n")
}

func printVar(buf *bytes.Buffer, v *Var) {
	writeDoc(buf, v.Doc)
	buf.WriteString("var " + v.Name)
	if v.Type != "" {
		buf.WriteString(" " + v.Type)
	}
	if v.Value != "" {
		buf.WriteString(" = " + v.Value)
	}
	buf.WriteByte('\n')
}

func params(ps []Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = strings.TrimSpace(p.Name + " " + p.Type)
	}
	return strings.Join(parts, ", ")
}

func writeDoc(buf *bytes.Buffer, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		writeComment(buf, line)
	}
}

func writeComment(buf *bytes.Buffer, line string) {
	line = strings.TrimRight(line, " \t")
	if line == "" {
		buf.WriteString("//\n")
		return
	}
	buf.WriteString("// " + line + "\n")
}
