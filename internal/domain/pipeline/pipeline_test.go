package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	t.Parallel()

	cmd, err := NewCommand("python", "setup.py", "sdist")
	require.NoError(t, err)
	assert.Equal(t, "python", cmd.Program())
	assert.Equal(t, []string{"setup.py", "sdist"}, cmd.Args())
	assert.Equal(t, []string{"python", "setup.py", "sdist"}, cmd.Argv())
	assert.Equal(t, "python setup.py sdist", cmd.String())

	_, err = NewCommand("  ")
	assert.ErrorIs(t, err, ErrEmptyCommand)

	_, err = CommandFromArgv(nil)
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestCommand_ArgsAreCopied(t *testing.T) {
	t.Parallel()

	args := []string{"upload", "dist/*"}
	cmd := MustNewCommand("twine", args...)
	args[0] = "mutated"

	assert.Equal(t, "upload", cmd.Args()[0])

	got := cmd.Args()
	got[1] = "mutated"
	assert.Equal(t, "dist/*", cmd.Args()[1])
}

func TestNewStep_RejectsZeroCommand(t *testing.T) {
	t.Parallel()

	_, err := NewStep(Command{})
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestStep_Options(t *testing.T) {
	t.Parallel()

	s := MustNewStep(MustNewCommand("make", "html"),
		Named("docs"),
		InEnvironment(" py36 "),
		InDir("doc"),
		WithGlobs(true),
	)

	assert.Equal(t, "docs", s.Name())
	assert.Equal(t, "py36", s.Environment())
	assert.Equal(t, "doc", s.WorkingDirectory())
	assert.True(t, s.ExpandGlobs())
	assert.Equal(t, "docs [py36] make html", s.String())
}

func TestNew_PreservesOrderAndNamesSteps(t *testing.T) {
	t.Parallel()

	p, err := New("release",
		MustNewStep(MustNewCommand("build", "--sdist"), InEnvironment("build-env-A")),
		MustNewStep(MustNewCommand("build", "--wheel"), InEnvironment("build-env-B"), Named("wheel")),
		MustNewStep(MustNewCommand("upload", "--artifacts", "dist/*")),
	)
	require.NoError(t, err)

	assert.Equal(t, "release", p.Name())
	require.Equal(t, 3, p.Len())
	assert.Equal(t, "step-1", p.Step(0).Name())
	assert.Equal(t, "wheel", p.Step(1).Name())
	assert.Equal(t, "step-3", p.Step(2).Name())
	assert.Equal(t, []string{"build-env-A", "build-env-B"}, p.Environments())
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	p, err := New("noop")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Empty(t, p.Steps())
}

func TestNew_DuplicateNames(t *testing.T) {
	t.Parallel()

	_, err := New("release",
		MustNewStep(MustNewCommand("true"), Named("build")),
		MustNewStep(MustNewCommand("true"), Named("build")),
	)
	assert.ErrorIs(t, err, ErrDuplicateStep)
}

func TestNew_RejectsZeroValueStep(t *testing.T) {
	t.Parallel()

	_, err := New("release", Step{})
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestPipeline_IsImmutable(t *testing.T) {
	t.Parallel()

	steps := []Step{MustNewStep(MustNewCommand("build", "--sdist"), Named("sdist"))}
	p := MustNew("release", steps...)

	steps[0] = MustNewStep(MustNewCommand("rm", "-rf", "/"), Named("evil"))
	assert.Equal(t, "sdist", p.Step(0).Name())

	got := p.Steps()
	got[0] = MustNewStep(MustNewCommand("rm"), Named("evil"))
	assert.Equal(t, "sdist", p.Steps()[0].Name())
	assert.Equal(t, "build", p.Step(0).Command().Program())
}

func TestStep_ResolvedArgs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dist := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(dist, 0o755))
	for _, name := range []string{"pkg-0.1.0.tar.gz", "pkg-0.1.0-py3-none-any.whl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dist, name), []byte("x"), 0o644))
	}

	tests := []struct {
		name  string
		globs bool
		args  []string
		want  []string
	}{
		{
			name: "globs disabled keeps pattern",
			args: []string{"upload", "dist/*"},
			want: []string{"upload", "dist/*"},
		},
		{
			name:  "expands sorted matches relative to dir",
			globs: true,
			args:  []string{"upload", "dist/*"},
			want:  []string{"upload", "dist/pkg-0.1.0-py3-none-any.whl", "dist/pkg-0.1.0.tar.gz"},
		},
		{
			name:  "no match kept literally",
			globs: true,
			args:  []string{"upload", "dist/*.egg"},
			want:  []string{"upload", "dist/*.egg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := MustNewStep(MustNewCommand("twine", tt.args...), InDir(dir), WithGlobs(tt.globs))
			got, err := s.ResolvedArgs()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStep_ResolvedArgs_BadPattern(t *testing.T) {
	t.Parallel()

	s := MustNewStep(MustNewCommand("twine", "upload", "dist/[x"), InDir(t.TempDir()), WithGlobs(true))
	_, err := s.ResolvedArgs()
	assert.Error(t, err)
}
