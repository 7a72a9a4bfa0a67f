package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrNoRenderer is returned when no registered renderer can serve a request.
var ErrNoRenderer = errors.New("render: no matching renderer")

// Registry stores step renderers by name and by media type. The first
// renderer registered is the fallback for wildcard requests. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Renderer
	byMedia map[string]Renderer
	order   []Renderer
}

// NewRegistry returns a registry holding renderers, in preference order.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Renderer),
		byMedia: make(map[string]Renderer),
	}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds renderer. Names must be unique; when two renderers share a
// media type the earlier one keeps it.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}
	media := mediaType(renderer.ContentType())
	if media == "" {
		return fmt.Errorf("render: renderer %q has no content type", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	if _, taken := r.byMedia[media]; !taken {
		r.byMedia[media] = renderer
	}
	r.order = append(r.order, renderer)
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q (available: %s)", ErrNoRenderer, name, strings.Join(r.namesLocked(), ", "))
	}
	return renderer, nil
}

// ForContentType retrieves the renderer producing contentType. Parameters
// such as charset are ignored.
func (r *Registry) ForContentType(contentType string) (Renderer, error) {
	media := mediaType(contentType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.byMedia[media]
	if !ok {
		return nil, fmt.Errorf("%w: content type %q", ErrNoRenderer, contentType)
	}
	return renderer, nil
}

// Negotiate picks the renderer for an HTTP Accept header. Media ranges are
// tried by descending q, then in header order; `type/*` matches the first
// registered renderer of that type and `*/*` or an empty header the first
// registered renderer.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, ErrNoRenderer
	}
	if strings.TrimSpace(accept) == "" {
		return r.order[0], nil
	}
	for _, rng := range parseAccept(accept) {
		if renderer := r.matchLocked(rng); renderer != nil {
			return renderer, nil
		}
	}
	return nil, fmt.Errorf("%w: accept %q", ErrNoRenderer, accept)
}

// List returns the sorted renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) matchLocked(media string) Renderer {
	switch {
	case media == "*/*":
		return r.order[0]
	case strings.HasSuffix(media, "/*"):
		prefix := strings.TrimSuffix(media, "*")
		for _, renderer := range r.order {
			if strings.HasPrefix(mediaType(renderer.ContentType()), prefix) {
				return renderer
			}
		}
		return nil
	default:
		return r.byMedia[media]
	}
}

type acceptRange struct {
	media string
	q     float64
}

// parseAccept returns the media ranges of header with q > 0, best first.
func parseAccept(header string) []string {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		media, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, acceptRange{media: media, q: q})
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].q > ranges[j].q })

	out := make([]string, 0, len(ranges))
	for _, rng := range ranges {
		out = append(out, rng.media)
	}
	return out
}

func mediaType(contentType string) string {
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return media
}
