package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

var defaultPrivateKeyFiles = []string{
	"id_ed25519",
	"id_ecdsa",
	"id_rsa",
}

// promptYesNo asks on the terminal; tests replace it.
var promptYesNo = terminalYesNo

func parseSSHTarget(target string) (string, string, error) {
	if strings.TrimSpace(target) == "" {
		return "", "", fmt.Errorf("remote target is required")
	}
	user, host, ok := strings.Cut(target, "@")
	if !ok || user == "" || host == "" {
		return "", "", fmt.Errorf("invalid remote target %q: expected user@host", target)
	}
	return user, host, nil
}

// knownHosts verifies host keys against ~/.ssh/known_hosts, trusting new
// hosts on first use after confirmation.
type knownHosts struct {
	path   string
	host   string
	port   int
	batch  bool
	verify ssh.HostKeyCallback
}

func openKnownHosts(host string, port int, batch bool) (*knownHosts, error) {
	path, err := ensureKnownHostsFile()
	if err != nil {
		return nil, err
	}
	return loadKnownHosts(path, host, port, batch)
}

func loadKnownHosts(path, host string, port int, batch bool) (*knownHosts, error) {
	verify, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load known_hosts: %w", err)
	}
	return &knownHosts{path: path, host: host, port: port, batch: batch, verify: verify}, nil
}

func (k *knownHosts) callback(hostname string, remote net.Addr, key ssh.PublicKey) error {
	err := k.verify(hostname, remote, key)
	if err == nil {
		return nil
	}
	var keyErr *knownhosts.KeyError
	if !errors.As(err, &keyErr) {
		return fmt.Errorf("host key verification failed: %w", err)
	}
	if len(keyErr.Want) == 0 {
		return k.trustNew(key)
	}
	return k.replaceChanged(keyErr.Want, key)
}

func (k *knownHosts) trustNew(key ssh.PublicKey) error {
	address := knownHostAddress(k.host, k.port)
	presented := ssh.FingerprintSHA256(key)
	if k.batch {
		return fmt.Errorf("unknown host key for %s (%s); run ssh once to trust it or drop --ssh-batch", address, presented)
	}
	ok, err := promptYesNo(fmt.Sprintf(
		"The authenticity of host '%s' can't be established.\n%s key fingerprint is %s.\nTrust this host and continue connecting (yes/no)? ",
		address, key.Type(), presented,
	))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key for %s was not trusted", address)
	}
	return addKnownHost(k.path, k.host, k.port, key)
}

func (k *knownHosts) replaceChanged(want []knownhosts.KnownKey, key ssh.PublicKey) error {
	address := knownHostAddress(k.host, k.port)
	expected := make([]string, 0, len(want))
	for _, w := range want {
		expected = append(expected, ssh.FingerprintSHA256(w.Key))
	}
	presented := ssh.FingerprintSHA256(key)
	if k.batch {
		return fmt.Errorf("host key mismatch for %s: expected %s, presented %s",
			address, strings.Join(expected, ", "), presented)
	}
	ok, err := promptYesNo(fmt.Sprintf(
		"WARNING: HOST KEY CHANGED for '%s'.\nExpected: %s\nPresented: %s\nReplace stored key and continue (yes/no)? ",
		address, strings.Join(expected, ", "), presented,
	))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key mismatch for %s", address)
	}
	return replaceKnownHost(k.path, k.host, k.port, key)
}

func ensureKnownHostsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for known_hosts: %w", err)
	}
	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create ~/.ssh directory: %w", err)
	}
	path := filepath.Join(sshDir, "known_hosts")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("cannot access known_hosts: %w", err)
	}
	f.Close()
	return path, nil
}

func knownHostAddress(host string, port int) string {
	if port == 22 {
		return host
	}
	return fmt.Sprintf("[%s]:%d", host, port)
}

func addKnownHost(path, host string, port int, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cannot update known_hosts: %w", err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownHostAddress(host, port)}, key)
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("cannot write known_hosts entry: %w", err)
	}
	return nil
}

func replaceKnownHost(path, host string, port int, key ssh.PublicKey) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read known_hosts: %w", err)
	}
	updated := removeKnownHostEntries(data, host, port)
	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}
	updated = append(updated, knownhosts.Line([]string{knownHostAddress(host, port)}, key)...)
	updated = append(updated, '\n')
	if err := os.WriteFile(path, updated, 0o600); err != nil {
		return fmt.Errorf("cannot write known_hosts: %w", err)
	}
	return nil
}

// removeKnownHostEntries drops every line naming host:port. Port 22 also
// matches the bare host name.
func removeKnownHostEntries(data []byte, host string, port int) []byte {
	names := map[string]bool{fmt.Sprintf("[%s]:%d", host, port): true}
	if port == 22 {
		names[host] = true
	}

	lines := strings.Split(string(data), "\n")
	keep := lines[:0]
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasPrefix(fields[0], "@") {
			fields = fields[1:]
		}
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") || !matchesAny(fields[0], names) {
			keep = append(keep, line)
		}
	}
	return []byte(strings.Join(keep, "\n"))
}

func matchesAny(hostField string, names map[string]bool) bool {
	for _, h := range strings.Split(hostField, ",") {
		if names[h] {
			return true
		}
	}
	return false
}

func terminalYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("cannot prompt for host key trust: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("host key prompt failed: %w", err)
	}
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes", nil
}

func buildAuthMethods(user, host string, batchMode bool) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if m := agentAuthMethod(); m != nil {
		methods = append(methods, m)
	}
	if signers := loadDefaultKeySigners(); len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	if !batchMode {
		p := &passwordPrompter{user: user, host: host}
		methods = append(methods, ssh.PasswordCallback(p.password), ssh.KeyboardInteractive(p.keyboardInteractive))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH auth methods available (configure ssh-agent or private keys, or drop --ssh-batch)")
	}
	return methods, nil
}

func agentAuthMethod() ssh.AuthMethod {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	if sock == "" {
		return nil
	}
	return ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return agent.NewClient(conn).Signers()
	})
}

// loadDefaultKeySigners reads unencrypted keys from ~/.ssh. Encrypted keys
// are left to the agent.
func loadDefaultKeySigners() []ssh.Signer {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	var signers []ssh.Signer
	for _, name := range defaultPrivateKeyFiles {
		pem, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}
		if signer, err := ssh.ParsePrivateKey(pem); err == nil {
			signers = append(signers, signer)
		}
	}
	return signers
}

// passwordPrompter asks once and reuses the answer for keyboard-interactive.
type passwordPrompter struct {
	user string
	host string

	once sync.Once
	pass string
	err  error
}

func (p *passwordPrompter) password() (string, error) {
	p.once.Do(func() {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			p.err = fmt.Errorf("cannot prompt for SSH password: stdin is not a terminal")
			return
		}
		fmt.Fprintf(os.Stderr, "%s@%s's password: ", p.user, p.host)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			p.err = fmt.Errorf("password prompt failed: %w", err)
			return
		}
		p.pass = string(b)
	})
	return p.pass, p.err
}

func (p *passwordPrompter) keyboardInteractive(_ string, _ string, questions []string, echos []bool) ([]string, error) {
	pass, err := p.password()
	if err != nil {
		return nil, err
	}
	answers := make([]string, len(questions))
	for i := range questions {
		if i < len(echos) && echos[i] {
			continue
		}
		answers[i] = pass
	}
	return answers, nil
}
