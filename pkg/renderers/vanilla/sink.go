package vanilla

import (
	"io"
	"sync"

	"github.com/goliatone/go-crudconsole/pkg/table"
)

// BodySink is a table.Sink that renders every body to HTML. The latest
// fragment is kept and, when a writer is set, also written out.
type BodySink struct {
	renderer    *Renderer
	w           io.Writer
	showActions bool

	mu   sync.Mutex
	html string
}

var _ table.Sink = (*BodySink)(nil)

// NewBodySink binds a sink to r. w may be nil.
func NewBodySink(r *Renderer, w io.Writer, showActions bool) *BodySink {
	return &BodySink{renderer: r, w: w, showActions: showActions}
}

func (s *BodySink) ReplaceBody(body table.Body) error {
	out, err := s.renderer.RenderBody(body, s.showActions)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = string(out)
	if s.w != nil {
		_, err = s.w.Write(out)
	}
	return err
}

// HTML returns the last rendered fragment.
func (s *BodySink) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}
