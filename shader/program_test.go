// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/soft"
	"github.com/gogpu/display/internal/shaders"
)

// recorder wraps a soft context and records the calls New makes.
type recorder struct {
	*soft.Context
	calls     []string
	lookups   int
	noProgram bool
}

func newRecorder() *recorder { return &recorder{Context: soft.New()} }

func (r *recorder) CreateProgram() gfx.Program {
	r.calls = append(r.calls, "CreateProgram")
	if r.noProgram {
		return 0
	}
	return r.Context.CreateProgram()
}

func (r *recorder) CompileShader(s gfx.Shader) {
	r.calls = append(r.calls, fmt.Sprintf("CompileShader(%d)", s))
	r.Context.CompileShader(s)
}

func (r *recorder) AttachShader(p gfx.Program, s gfx.Shader) {
	r.calls = append(r.calls, fmt.Sprintf("AttachShader(%d)", s))
	r.Context.AttachShader(p, s)
}

func (r *recorder) LinkProgram(p gfx.Program) {
	r.calls = append(r.calls, "LinkProgram")
	r.Context.LinkProgram(p)
}

func (r *recorder) DeleteShader(s gfx.Shader) {
	r.calls = append(r.calls, fmt.Sprintf("DeleteShader(%d)", s))
	r.Context.DeleteShader(s)
}

func (r *recorder) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	r.lookups++
	return r.Context.UniformLocation(p, name)
}

func TestNewBuildOrder(t *testing.T) {
	r := newRecorder()
	p, err := New(r, shaders.QuadVertex, shaders.PlasmaFragment)
	if err != nil {
		t.Fatal(err)
	}
	// Program is name 1, the stages are 2 and 3.
	want := []string{
		"CreateProgram",
		"CompileShader(2)",
		"CompileShader(3)",
		"AttachShader(2)",
		"AttachShader(3)",
		"LinkProgram",
		"DeleteShader(2)",
		"DeleteShader(3)",
	}
	if strings.Join(r.calls, " ") != strings.Join(want, " ") {
		t.Errorf("calls = %v\nwant    %v", r.calls, want)
	}
	if r.ShaderCount() != 0 {
		t.Errorf("ShaderCount = %d, want 0", r.ShaderCount())
	}
	if p.ID() != 1 {
		t.Errorf("ID() = %d, want 1", p.ID())
	}
	if !p.Status().OK() || p.Status().Err() != nil {
		t.Errorf("Status = %+v", p.Status())
	}
	vs, fs := p.Sources()
	if vs != shaders.QuadVertex || fs != shaders.PlasmaFragment {
		t.Error("Sources() do not match the input")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, "", ""); !errors.Is(err, ErrNilContext) {
		t.Errorf("nil context: %v", err)
	}
	r := newRecorder()
	r.noProgram = true
	if _, err := New(r, shaders.QuadVertex, shaders.PlasmaFragment); !errors.Is(err, ErrProgramUnavailable) {
		t.Errorf("zero program: %v", err)
	}
}

func TestNewFailuresArePermissive(t *testing.T) {
	tests := []struct {
		name       string
		vs, fs     string
		wantStage  gfx.Stage
		wantLinkOK bool
	}{
		{"vertex", "nonsense", shaders.PlasmaFragment, gfx.StageVertex, false},
		{"fragment", shaders.QuadVertex, "@fragment fn fs_main( -> {", gfx.StageFragment, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder()
			p, err := New(r, tt.vs, tt.fs)
			if err != nil {
				t.Fatalf("New() error = %v, want nil", err)
			}
			if p.ID() == 0 {
				t.Error("program handle not kept")
			}
			st := p.Status()
			if st.OK() || st.Linked != tt.wantLinkOK {
				t.Errorf("Status = %+v", st)
			}
			var ce *CompileError
			if !errors.As(st.Err(), &ce) || ce.Stage != tt.wantStage {
				t.Errorf("Status.Err() = %v, want %s CompileError", st.Err(), tt.wantStage)
			}
			if r.ShaderCount() != 0 {
				t.Error("stage objects leaked after a failure")
			}
		})
	}
}

func TestNewFailureLogsDiagnostics(t *testing.T) {
	orig := display.Logger()
	t.Cleanup(func() { display.SetLogger(orig) })

	var buf bytes.Buffer
	display.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	if _, err := New(newRecorder(), shaders.QuadVertex, "@fragment fn fs_main( -> {"); err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("logged %d records, want 2:\n%s", len(lines), buf.String())
	}
	for _, want := range []string{"level=ERROR", `msg="shader: compilation failed"`, "stage=fragment", "log="} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("compile record %q missing %q", lines[0], want)
		}
	}
	for _, want := range []string{"level=ERROR", `msg="shader: link failed"`, "program=1"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("link record %q missing %q", lines[1], want)
		}
	}
}

func TestNewLinkFailure(t *testing.T) {
	const mismatched = `
@fragment
fn fs_main(@location(4) v: f32) -> @location(0) vec4<f32> {
    return vec4<f32>(v, v, v, 1.0);
}
`
	r := newRecorder()
	p, err := New(r, shaders.QuadVertex, mismatched)
	if err != nil {
		t.Fatal(err)
	}
	st := p.Status()
	if !st.VertexCompiled || !st.FragmentCompiled || st.Linked {
		t.Fatalf("Status = %+v", st)
	}
	var le *LinkError
	if !errors.As(st.Err(), &le) || !strings.Contains(le.Log, "location 4") {
		t.Errorf("Status.Err() = %v", st.Err())
	}

	if _, err := New(newRecorder(), shaders.QuadVertex, mismatched, WithStrictLink()); !errors.As(err, &le) {
		t.Errorf("strict New() error = %v, want *LinkError", err)
	}
}

func TestStrictLinkDeletesProgram(t *testing.T) {
	r := newRecorder()
	p, err := New(r, "nonsense", shaders.PlasmaFragment, WithStrictLink())
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Stage != gfx.StageVertex {
		t.Fatalf("error = %v, want vertex CompileError", err)
	}
	if p != nil {
		t.Error("program returned on strict failure")
	}
	if r.ProgramCount() != 0 || r.ShaderCount() != 0 {
		t.Errorf("objects leaked: programs=%d shaders=%d", r.ProgramCount(), r.ShaderCount())
	}
}

func TestSetUniforms(t *testing.T) {
	r := newRecorder()
	p, err := New(r, shaders.QuadVertex, shaders.PlasmaFragment)
	if err != nil {
		t.Fatal(err)
	}
	p.Bind()
	p.SetUniform1f("u_time", 2.5)
	p.SetUniform2f("u_resolution", 800, 600)
	p.SetUniform1i("u_frame", 42)
	p.SetUniform1f("u_missing", 1)
	if got := r.Err(); got != gfx.NoError {
		t.Fatalf("Err() = %v", got)
	}

	if v, _ := r.UniformValue(p.ID(), "u_time"); v.Float[0] != 2.5 {
		t.Errorf("u_time = %v", v.Float[0])
	}
	if v, _ := r.UniformValue(p.ID(), "u_resolution"); v.Float != [2]float32{800, 600} {
		t.Errorf("u_resolution = %v", v.Float)
	}
	if v, _ := r.UniformValue(p.ID(), "u_frame"); v.Int != 42 {
		t.Errorf("u_frame = %v", v.Int)
	}

	p.SetUniform2fv("u_resolution", [2]float32{1, 2})
	if v, _ := r.UniformValue(p.ID(), "u_resolution"); v.Float != [2]float32{1, 2} {
		t.Errorf("u_resolution after 2fv = %v", v.Float)
	}

	p.Unbind()
	if r.Current() != 0 {
		t.Error("Unbind left the program current")
	}
}

func TestLocationCache(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"fresh lookups", nil, 4},
		{"cached", []Option{WithLocationCache()}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder()
			p, err := New(r, shaders.QuadVertex, shaders.PlasmaFragment, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			p.Bind()
			for i := 0; i < 2; i++ {
				p.SetUniform1f("u_time", float32(i))
				p.SetUniform1f("u_missing", 0)
			}
			if r.lookups != tt.want {
				t.Errorf("lookups = %d, want %d", r.lookups, tt.want)
			}
			if v, _ := r.UniformValue(p.ID(), "u_time"); v.Float[0] != 1 {
				t.Errorf("u_time = %v, want 1", v.Float[0])
			}
		})
	}
}

func TestClose(t *testing.T) {
	r := newRecorder()
	p, err := New(r, shaders.QuadVertex, shaders.PlasmaFragment)
	if err != nil {
		t.Fatal(err)
	}
	p.Bind()
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if r.ProgramCount() != 0 {
		t.Errorf("ProgramCount = %d, want 0", r.ProgramCount())
	}

	p.Bind()
	p.SetUniform1f("u_time", 1)
	p.Unbind()
	if got := r.Err(); got != gfx.NoError {
		t.Errorf("calls after Close reached the context: Err() = %v", got)
	}
}

func TestStatusErr(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want string
	}{
		{"ok", Status{VertexCompiled: true, FragmentCompiled: true, Linked: true}, ""},
		{"vertex", Status{VertexLog: "bad"}, "shader: vertex compilation failed: bad"},
		{"fragment", Status{VertexCompiled: true}, "shader: fragment compilation failed"},
		{"link", Status{VertexCompiled: true, FragmentCompiled: true, LinkLog: "x"}, "shader: link failed: x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.st.Err()
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.want {
				t.Errorf("Err() = %q, want %q", got, tt.want)
			}
		})
	}
}
