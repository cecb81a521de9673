package gfx

// ScopeParam is a named shader input. The device reads its value at draw time.
type ScopeParam struct {
	name  string
	value any
	set   bool
}

func (p *ScopeParam) Name() string { return p.name }

func (p *ScopeParam) SetValue(v any) {
	p.value = v
	p.set = true
}

func (p *ScopeParam) Value() any { return p.value }
func (p *ScopeParam) IsSet() bool { return p.set }

// Scope resolves shader parameters by name, creating them on first use.
type Scope struct {
	params map[string]*ScopeParam
}

func NewScope() *Scope {
	return &Scope{params: make(map[string]*ScopeParam)}
}

func (s *Scope) Resolve(name string) *ScopeParam {
	if p, ok := s.params[name]; ok {
		return p
	}
	p := &ScopeParam{name: name}
	s.params[name] = p
	return p
}

// Snapshot copies every parameter that has a value.
func (s *Scope) Snapshot() map[string]any {
	out := make(map[string]any, len(s.params))
	for name, p := range s.params {
		if p.set {
			out[name] = p.value
		}
	}
	return out
}
