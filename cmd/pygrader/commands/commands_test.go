package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/scaffold"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sandbox struct {
	home    string
	dataDir string
}

// newSandbox points HOME and the XDG directories at a temp dir so no test
// touches the real ~/.local/share/pygrader.
func newSandbox(t *testing.T) sandbox {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	for _, key := range []string{"PYGRADER_DATA_DIR", "PYGRADER_TEMPLATES_DIR", "PYGRADER_NO_COLOR"} {
		t.Setenv(key, "")
	}
	return sandbox{home: home, dataDir: filepath.Join(home, "data", "pygrader")}
}

type output struct {
	stdout string
	stderr string
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (output, error) {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return output{stdout: out.String(), stderr: errOut.String()}, err
}

func TestNewHW_NoArguments(t *testing.T) {
	sb := newSandbox(t)

	out, err := execute(t, NewHWCommand(), "")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Usage: newhw <assignment-name> [org/repo]")
	assert.NoDirExists(t, sb.dataDir, "usage errors have no side effects")
}

func TestNewHW_TooManyArguments(t *testing.T) {
	sb := newSandbox(t)

	out, err := execute(t, NewHWCommand(), "", "hw1", "org/repo", "extra")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Usage:")
	assert.NoDirExists(t, sb.dataDir)
}

func TestNewHW_Scaffolds(t *testing.T) {
	sb := newSandbox(t)

	out, err := execute(t, NewHWCommand(), "", "HW1", "w4118/hw1")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "Created homework directory")

	dir := filepath.Join(sb.dataDir, "hw1")
	grader, err := os.ReadFile(filepath.Join(dir, homework.GraderFile))
	require.NoError(t, err)
	assert.Contains(t, string(grader), `ALIASES = {"hw1"}`)
	assert.NotContains(t, string(grader), "ASSIGNMENT")

	setup, err := os.ReadFile(filepath.Join(dir, homework.SetupFile))
	require.NoError(t, err)
	assert.Contains(t, string(setup), "git@github.com:w4118/hw1.git")
	assert.NotContains(t, string(setup), "ORG/REPO")

	info, err := os.Stat(filepath.Join(dir, homework.SetupFile))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0111)

	assert.FileExists(t, filepath.Join(dir, homework.RubricFile))
	assert.NoFileExists(t, filepath.Join(dir, homework.DeadlineFile))
}

func TestNewHW_DataDirFlag(t *testing.T) {
	newSandbox(t)
	root := filepath.Join(t.TempDir(), "elsewhere")

	_, err := execute(t, NewHWCommand(), "", "--data-dir", root, "lab1")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "lab1"))
}

func TestNewHW_EnvDataDir(t *testing.T) {
	newSandbox(t)
	root := filepath.Join(t.TempDir(), "from-env")
	t.Setenv("PYGRADER_DATA_DIR", root)

	_, err := execute(t, NewHWCommand(), "", "lab1")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "lab1"))
}

func TestNewHW_Overwrite(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantErr     bool
		wantReplace bool
	}{
		{name: "declined with N", stdin: "N\n", args: []string{"hw1"}, wantErr: true},
		{name: "declined with empty answer", stdin: "\n", args: []string{"hw1"}, wantErr: true},
		{name: "declined at EOF", stdin: "", args: []string{"hw1"}, wantErr: true},
		{name: "accepted with y", stdin: "y\n", args: []string{"hw1"}, wantReplace: true},
		{name: "accepted with Y", stdin: "Y\n", args: []string{"HW1"}, wantReplace: true},
		{name: "--yes skips the prompt", stdin: "", args: []string{"--yes", "hw1"}, wantReplace: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := newSandbox(t)
			dir := filepath.Join(sb.dataDir, "hw1")
			require.NoError(t, os.MkdirAll(dir, 0755))
			stale := filepath.Join(dir, "grades.json")
			require.NoError(t, os.WriteFile(stale, []byte(`{"abc123": {}}`), 0644))

			out, err := execute(t, NewHWCommand(), tt.stdin, tt.args...)
			if tt.wantErr {
				require.ErrorIs(t, err, scaffold.ErrDeclined)
				assert.FileExists(t, stale)
				assert.NoFileExists(t, filepath.Join(dir, homework.GraderFile))
				assert.NotContains(t, out.stderr, "failed", "declining is silent")
				return
			}

			require.NoError(t, err)
			assert.NoFileExists(t, stale, "old contents must be gone")
			assert.FileExists(t, filepath.Join(dir, homework.GraderFile))
			if tt.wantReplace {
				assert.Contains(t, out.stdout, "Recreated homework directory")
			}
		})
	}
}

func TestNewHW_PromptsOnStderr(t *testing.T) {
	sb := newSandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Join(sb.dataDir, "hw1"), 0755))

	out, err := execute(t, NewHWCommand(), "n\n", "hw1")
	require.ErrorIs(t, err, scaffold.ErrDeclined)
	assert.Contains(t, out.stderr, "already exists. Overwrite? [y/N]")
	assert.Empty(t, out.stdout)
}

func TestNewHW_InvalidName(t *testing.T) {
	sb := newSandbox(t)

	out, err := execute(t, NewHWCommand(), "", "../escape")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Invalid assignment name")
	assert.NoDirExists(t, sb.dataDir)
	assert.NoDirExists(t, filepath.Join(sb.home, "data", "escape"))
}

func TestNewHW_TemplatesDir(t *testing.T) {
	newSandbox(t)
	tmplDir := t.TempDir()
	files := map[string]string{
		"rubric.json": `{"A": {"A1": {"name": "A1", "points_per_subitem": [1], "desc_per_subitem": ["x"]}}}`,
		"grader.py":   "HW = 'ASSIGNMENT'\n",
		"clone_setup": "echo ORG/REPO\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmplDir, name), []byte(content), 0644))
	}
	root := t.TempDir()

	_, err := execute(t, NewHWCommand(), "", "--templates-dir", tmplDir, "--data-dir", root, "Lab9", "cs/lab9")
	require.NoError(t, err)

	grader, err := os.ReadFile(filepath.Join(root, "lab9", homework.GraderFile))
	require.NoError(t, err)
	assert.Equal(t, "HW = 'lab9'\n", string(grader))

	setup, err := os.ReadFile(filepath.Join(root, "lab9", homework.SetupFile))
	require.NoError(t, err)
	assert.Equal(t, "echo cs/lab9\n", string(setup))
}

func TestNewHW_MissingTemplatesDir(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewHWCommand(), "", "--templates-dir", filepath.Join(t.TempDir(), "nope"), "hw1")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Template set unavailable")
}

func TestRoot_ShowsHelpWithoutSubcommand(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "Usage:")
	assert.Contains(t, out.stdout, "pygrader")
}

func TestRoot_RejectsUnknownFlags(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Usage:")
	assert.Contains(t, out.stderr, "unknown flag: --unknown-flag")
}

func TestNewHW_FlagErrorsReachStderr(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--bogus", "hw1"}, want: "unknown flag: --bogus"},
		{name: "missing flag value", args: []string{"hw1", "--data-dir"}, want: "flag needs an argument: --data-dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := newSandbox(t)

			out, err := execute(t, NewHWCommand(), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, out.stderr, "Usage: newhw <assignment-name> [org/repo]")
			assert.Contains(t, out.stderr, tt.want)
			assert.NoDirExists(t, sb.dataDir)
		})
	}
}

func TestSubcommand_FlagErrorsReachStderr(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "list", "--output")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "flag needs an argument")
}

func TestNew_Subcommand(t *testing.T) {
	sb := newSandbox(t)

	_, err := execute(t, NewRootCommand(), "", "new", "HW2")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(sb.dataDir, "hw2", homework.SetupFile))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestList(t *testing.T) {
	sb := newSandbox(t)
	for _, name := range []string{"hw2", "hw1"} {
		_, err := execute(t, NewHWCommand(), "", name)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(sb.dataDir, "hw1", homework.DeadlineFile), []byte("09/30/2026 11:59 PM\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(sb.dataDir, ".trash"), 0755))

	out, err := execute(t, NewRootCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "09/30/2026 11:59 PM")
	assert.Contains(t, out.stdout, "2 homework directories")
	assert.NotContains(t, out.stdout, ".trash")
	assert.Less(t, strings.Index(out.stdout, "hw1"), strings.Index(out.stdout, "hw2"))

	out, err = execute(t, NewRootCommand(), "", "list", "-o", "jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"hw1"`)
	assert.Contains(t, lines[1], `"name":"hw2"`)
}

func TestList_Empty(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "No homework directories found")
}

func TestList_BadFormat(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, out.stderr, `Unknown output format "xml"`)
}

func TestCheck(t *testing.T) {
	sb := newSandbox(t)
	_, err := execute(t, NewHWCommand(), "", "hw1", "org/repo")
	require.NoError(t, err)

	out, err := execute(t, NewRootCommand(), "", "check", "HW1")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "hw1 satisfies the homework contract")
	assert.Contains(t, out.stdout, "rubric: 2 items, 20 points")
	assert.Contains(t, out.stdout, "10 pts  B1 (deducting)")
	assert.NotContains(t, out.stdout, "A1 (deducting)")
	assert.Contains(t, out.stderr, "deadline.txt: missing")

	require.NoError(t, os.Chmod(filepath.Join(sb.dataDir, "hw1", homework.SetupFile), 0644))
	out, err = execute(t, NewRootCommand(), "", "check", "hw1")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "hw1 is not ready for grading")
	assert.Contains(t, out.stderr, "setup: not executable")
}

func TestCheck_NotFound(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "check", "hw7")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Homework not found")
}

func TestCheck_RequiresName(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "check")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Usage: pygrader check <assignment-name>")
}

func TestConfig(t *testing.T) {
	sb := newSandbox(t)
	cfgDir := filepath.Join(sb.home, "config", "pygrader")
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("data_dir: ~/grading\n"), 0644))

	out, err := execute(t, NewRootCommand(), "", "config")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "# read from "+filepath.Join(cfgDir, "config.yaml"))
	assert.Contains(t, out.stdout, "data_dir: "+filepath.Join(sb.home, "grading"))
}

func TestConfig_ExplicitFileMissing(t *testing.T) {
	newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "config")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Invalid configuration")
}

func TestPath(t *testing.T) {
	sb := newSandbox(t)

	out, err := execute(t, NewRootCommand(), "", "path")
	require.NoError(t, err)
	assert.Equal(t, sb.dataDir+"\n", out.stdout)

	out, err = execute(t, NewRootCommand(), "", "path", "HW3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sb.dataDir, "hw3")+"\n", out.stdout)
}

func TestCheck_PrefixResolution(t *testing.T) {
	newSandbox(t)
	for _, name := range []string{"lab1", "hw1", "hw2"} {
		_, err := execute(t, NewHWCommand(), "", name)
		require.NoError(t, err)
	}

	out, err := execute(t, NewRootCommand(), "", "check", "lab")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "lab1 satisfies the homework contract")

	out, err = execute(t, NewRootCommand(), "", "check", "hw")
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Ambiguous assignment name")
}
