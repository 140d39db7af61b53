package lcu

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrNoLockfile = errors.New("lcu: lockfile not found")

// Credentials is what we need to authenticate to the LCU: the ephemeral
// port and the remoting auth token the client wrote at startup.
type Credentials struct {
	Port  int
	Token string
}

func (c Credentials) BaseURL() string {
	return fmt.Sprintf("https://127.0.0.1:%d", c.Port)
}

// ParseLockfile parses the colon-delimited lockfile content:
// name:pid:port:token:protocol. Only port (index 2) and token (index 3)
// matter to us.
func ParseLockfile(content string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) < 5 {
		return Credentials{}, fmt.Errorf("lcu: malformed lockfile (%d fields)", len(parts))
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || port <= 0 {
		return Credentials{}, fmt.Errorf("lcu: bad port in lockfile: %q", parts[2])
	}
	token := strings.TrimSpace(parts[3])
	if token == "" {
		return Credentials{}, errors.New("lcu: empty token in lockfile")
	}
	return Credentials{Port: port, Token: token}, nil
}

// Well-known install locations, checked last. The LCU_LOCKFILE env var and
// the running process's own arguments are both checked first, so this list
// only matters for unusual setups.
var commonInstallDirs = []string{
	`C:\Riot Games\League of Legends`,
	`C:\Program Files\Riot Games\League of Legends`,
	`C:\Program Files (x86)\Riot Games\League of Legends`,
	`D:\Riot Games\League of Legends`,
	`D:\Program Files\Riot Games\League of Legends`,
	`E:\Riot Games\League of Legends`,
	`C:\Games\League of Legends`,
	`D:\Games\League of Legends`,
}

// Discover locates LCU credentials: explicit override, then the running
// client's command-line flags, then lockfiles next to known installs.
func Discover() (Credentials, error) {
	if path := os.Getenv("LCU_LOCKFILE"); path != "" {
		if creds, err := readLockfile(path); err == nil {
			return creds, nil
		}
	}
	if creds, err := fromProcessArgs(); err == nil {
		return creds, nil
	}
	if dir := os.Getenv("LOL_INSTALL_DIR"); dir != "" {
		if creds, err := readLockfile(filepath.Join(dir, "lockfile")); err == nil {
			return creds, nil
		}
	}
	for _, dir := range commonInstallDirs {
		if creds, err := readLockfile(filepath.Join(dir, "lockfile")); err == nil {
			return creds, nil
		}
	}
	return Credentials{}, ErrNoLockfile
}

func readLockfile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}
	return ParseLockfile(string(data))
}

// fromProcessArgs scans running processes for the client's
// --app-port/--remoting-auth-token flags. Only works where /proc exists;
// elsewhere it just finds nothing and discovery falls through.
func fromProcessArgs() (Credentials, error) {
	matches, _ := filepath.Glob("/proc/[0-9]*/cmdline")
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !bytes.Contains(data, []byte("LeagueClient")) {
			continue
		}
		args := strings.Split(string(data), "\x00")
		if creds, ok := CredentialsFromArgs(args); ok {
			return creds, nil
		}
	}
	return Credentials{}, ErrNoLockfile
}

// CredentialsFromArgs extracts credentials from a process argument list.
func CredentialsFromArgs(args []string) (Credentials, bool) {
	var creds Credentials
	for _, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--app-port="); ok {
			creds.Port, _ = strconv.Atoi(strings.Trim(v, `"`))
		}
		if v, ok := strings.CutPrefix(arg, "--remoting-auth-token="); ok {
			creds.Token = strings.Trim(v, `"`)
		}
	}
	return creds, creds.Port > 0 && creds.Token != ""
}
