package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/host"
	"github.com/shellwalk/shellcore/signal"
)

func registerDirectory(t Table) {
	t["cd"] = cdBuiltin
	t["pwd"] = pwdBuiltin
	t["pushd"] = pushdBuiltin
	t["popd"] = popdBuiltin
	t["dirs"] = dirsBuiltin
}

// cdBuiltin implements `cd [-L|-P] [-|dir]`. -L/-P select logical vs
// physical path resolution; without host symlink-resolution support
// there's nothing further to do for -P than accept it, so both are
// parsed and otherwise ignored. Tilde expansion already happened in
// word expansion before args reached here.
func cdBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	i := 0
	for i < len(args) && (args[i] == "-L" || args[i] == "-P") {
		i++
	}
	rest := args[i:]

	var target string
	switch {
	case len(rest) == 0:
		target, _ = bc.Sc.GetEnv("HOME")
		if target == "" {
			target = "/"
		}
	case rest[0] == "-":
		old, ok := bc.Sc.GetEnv("OLDPWD")
		if !ok {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "cd: OLDPWD not set\n"}
		}
		target = old
	default:
		target = rest[0]
		if !strings.HasPrefix(target, "/") {
			target = joinPath(bc.Sc.Cwd(), target)
		}
	}

	if tester, ok := bc.Host.(host.PathTester); ok {
		if isDir, err := tester.TestPath(bc.GoCtx, target, host.OpDirectory, ""); err == nil && !isDir {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: fmt.Sprintf("cd: %s: No such file or directory\n", target)}
		}
	}

	old := bc.Sc.Cwd()
	bc.Sc.SetCwd(target)
	_ = bc.Sc.SetEnv("OLDPWD", old)
	_ = bc.Sc.SetEnv("PWD", target)
	return exec.BuiltinResult{Status: signal.Ok(0)}
}

func joinPath(base, rel string) string {
	if rel == "." {
		return base
	}
	if base == "/" {
		return "/" + rel
	}
	return base + "/" + rel
}

func pwdBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: bc.Sc.Cwd() + "\n"}
}

// pushdBuiltin implements `pushd [-n] [dir|+N|-N]`. -n is accepted and
// has no effect: a push or a rotation changes the cwd with or without it.
func pushdBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	i := 0
	for i < len(args) && args[i] == "-n" {
		i++
	}
	rest := args[i:]

	if len(rest) == 0 {
		if len(bc.Sc.DirStack()) == 0 {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "pushd: no other directory\n"}
		}
		if _, err := bc.Sc.PopDir(); err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: err.Error() + "\n"}
		}
		return dirsBuiltin(bc, nil)
	}

	full := len(bc.Sc.DirStack()) + 1
	if n, ok := rotationIndex(rest[0], full); ok {
		if err := bc.Sc.RotateDirStack(n); err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "pushd: " + err.Error() + "\n"}
		}
		return dirsBuiltin(bc, nil)
	}

	target := rest[0]
	if !strings.HasPrefix(target, "/") {
		target = joinPath(bc.Sc.Cwd(), target)
	}
	bc.Sc.PushDir(target)
	return dirsBuiltin(bc, nil)
}

func popdBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	i := 0
	for i < len(args) && args[i] == "-n" {
		i++
	}
	rest := args[i:]

	if len(rest) == 0 {
		if _, err := bc.Sc.PopDir(); err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "popd: " + err.Error() + "\n"}
		}
		return dirsBuiltin(bc, nil)
	}

	full := len(bc.Sc.DirStack()) + 1
	n, ok := rotationIndex(rest[0], full)
	if !ok {
		return exec.BuiltinResult{Status: signal.Ok(2), Stderr: "popd: bad argument\n"}
	}
	if n == 0 {
		if _, err := bc.Sc.PopDir(); err != nil {
			return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "popd: " + err.Error() + "\n"}
		}
	} else if err := bc.Sc.RemoveDirAt(n - 1); err != nil {
		return exec.BuiltinResult{Status: signal.Ok(1), Stderr: "popd: " + err.Error() + "\n"}
	}
	return dirsBuiltin(bc, nil)
}

// rotationIndex resolves a `+N`/`-N` argument against the full
// cwd-plus-stack view (position 0 = cwd, matching RotateDirStack's and
// dirs' numbering): +N counts from the left, -N from the right.
func rotationIndex(s string, full int) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	if s[0] == '+' {
		return n, n < full
	}
	idx := full - 1 - n
	return idx, idx >= 0
}

// dirsBuiltin implements `dirs -c -v -p -l`. -c clears the stack;
// -p/-v print one entry per line (-v additionally numbers them); -l
// requests the long (non-tilde-abbreviated) form, a no-op here since
// paths are never tilde-abbreviated in storage.
func dirsBuiltin(bc *exec.BuiltinContext, args []string) exec.BuiltinResult {
	var perLine, numbered bool
	for _, a := range args {
		switch a {
		case "-c":
			bc.Sc.ClearDirStack()
			return exec.BuiltinResult{Status: signal.Ok(0)}
		case "-p":
			perLine = true
		case "-v":
			perLine = true
			numbered = true
		case "-l":
			// long form: no-op, see doc comment.
		}
	}

	full := append([]string{bc.Sc.Cwd()}, bc.Sc.DirStack()...)
	if !perLine {
		return exec.BuiltinResult{Status: signal.Ok(0), Stdout: strings.Join(full, " ") + "\n"}
	}
	var b strings.Builder
	for i, d := range full {
		if numbered {
			fmt.Fprintf(&b, "%2d  %s\n", i, d)
		} else {
			fmt.Fprintf(&b, "%s\n", d)
		}
	}
	return exec.BuiltinResult{Status: signal.Ok(0), Stdout: b.String()}
}
