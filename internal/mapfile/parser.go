package mapfile

import (
	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/diag"
)

// ParseError is returned for any malformed map document.
type ParseError struct {
	*diag.Diagnostic
}

func parseErr(file string, offset, line, col int, format string, args ...interface{}) error {
	return &ParseError{diag.New(diag.StageParse, file, offset, line, col, format, args...)}
}

// nameByte reports whether r is a legal byte in a block/property name:
// [A-Za-z0-9_\-$].
func nameByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '$':
		return true
	}
	return false
}

// scanner walks the raw map text, tracking line/column for diagnostics.
type scanner struct {
	file string
	src  string
	pos  int
	line int
	col  int
}

func newScanner(file, src string) *scanner {
	return &scanner{file: file, src: src, line: 1, col: 1}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// skipTrivia skips whitespace and "// ..." line comments.
func (s *scanner) skipTrivia() {
	for !s.eof() {
		c := s.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) readName() (string, error) {
	start := s.pos
	for !s.eof() && nameByte(s.peek()) {
		s.advance()
	}
	if s.pos == start {
		return "", parseErr(s.file, s.pos, s.line, s.col, "expected a name, got %q", previewByte(s))
	}
	return s.src[start:s.pos], nil
}

func (s *scanner) readString() (string, error) {
	if s.peek() != '"' {
		return "", parseErr(s.file, s.pos, s.line, s.col, "expected a quoted string, got %q", previewByte(s))
	}
	s.advance()
	start := s.pos
	for {
		if s.eof() {
			return "", parseErr(s.file, s.pos, s.line, s.col, "unclosed string literal")
		}
		if s.peek() == '"' {
			str := s.src[start:s.pos]
			s.advance()
			return str, nil
		}
		s.advance()
	}
}

func previewByte(s *scanner) string {
	if s.eof() {
		return "<eof>"
	}
	return string(s.peek())
}

// frame is an in-progress Block on the iterative parse stack.
type frame struct {
	name       atom.Atom
	properties []Property
	blocks     []Block
}

// Parse parses raw map document text into a flat ordered list of
// top-level blocks. The outer loop is iterative (not recursive) so
// that stack depth is bounded regardless of nesting depth in very
// large map files (§4.2).
func Parse(file, src string) ([]Block, error) {
	s := newScanner(file, src)
	var top []Block
	var stack []frame

	for {
		s.skipTrivia()
		if s.eof() {
			break
		}

		if s.peek() == '}' {
			if len(stack) == 0 {
				return nil, parseErr(s.file, s.pos, s.line, s.col, "unexpected '}' with no open block")
			}
			s.advance()
			top, stack = closeFrame(top, stack)
			continue
		}

		// Either "name {" (a nested block) or "key" "value" (a property)
		// inside the frame on top of the stack, or a new top-level block.
		nameStart := s.pos
		nameLine, nameCol := s.line, s.col
		if s.peek() == '"' {
			// This is a property: string string.
			if len(stack) == 0 {
				return nil, parseErr(s.file, nameStart, nameLine, nameCol, "property outside of any block")
			}
			key, err := s.readString()
			if err != nil {
				return nil, err
			}
			s.skipTrivia()
			value, err := s.readString()
			if err != nil {
				return nil, err
			}
			stack[len(stack)-1].properties = append(stack[len(stack)-1].properties, Property{
				Key:   atom.From(key),
				Value: value,
			})
			continue
		}

		name, err := s.readName()
		if err != nil {
			return nil, err
		}
		s.skipTrivia()
		if s.eof() || s.peek() != '{' {
			return nil, parseErr(s.file, s.pos, s.line, s.col, "expected '{' after name %q", name)
		}
		s.advance() // consume '{'
		stack = append(stack, frame{name: atom.From(name)})
	}

	if len(stack) != 0 {
		return nil, parseErr(s.file, s.pos, s.line, s.col, "unclosed block %q", stack[len(stack)-1].name.String())
	}

	return top, nil
}


// closeFrame pops the top frame, turning it into a Block, and appends
// it either to the new top-of-stack frame's children or to the
// top-level list if the stack is now empty.
func closeFrame(top []Block, stack []frame) ([]Block, []frame) {
	f := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	block := Block{Name: f.name, Properties: f.properties, Blocks: f.blocks}
	if len(stack) == 0 {
		top = append(top, block)
	} else {
		stack[len(stack)-1].blocks = append(stack[len(stack)-1].blocks, block)
	}
	return top, stack
}
