package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandResult_Success(t *testing.T) {
	t.Parallel()

	assert.True(t, CommandResult{ExitCode: 0, Stdout: "output"}.Success())
	assert.False(t, CommandResult{ExitCode: 1, Stderr: "error"}.Success())
}

func TestCommandRequest_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  CommandRequest
		want string
	}{
		{"program only", CommandRequest{Program: "make"}, "make"},
		{"with args", CommandRequest{Program: "python", Args: []string{"setup.py", "sdist"}}, "python setup.py sdist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.req.String())
		})
	}
}

func TestExecContext_Lookup(t *testing.T) {
	t.Parallel()

	ec := ExecContext{Name: "py36", Env: []string{"PATH=/usr/bin", "HOME=/root", "PATH=/opt/py36/bin:/usr/bin"}}

	v, ok := ec.Lookup("PATH")
	assert.True(t, ok)
	assert.Equal(t, "/opt/py36/bin:/usr/bin", v, "last assignment wins")

	_, ok = ec.Lookup("PYTHONHOME")
	assert.False(t, ok)

	_, ok = ec.Lookup("HOM")
	assert.False(t, ok, "prefix of a key must not match")
}
