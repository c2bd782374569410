// Package remote exposes a host reachable over SSH as a scanner.FS.
package remote

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	pathpkg "path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/sadopc/duview/internal/logging"
	"github.com/sadopc/duview/internal/model"
)

const defaultRemotePath = "."

const maxInt64 = int64(^uint64(0) >> 1)

// Config configures the SSH connection.
type Config struct {
	Target    string // user@host
	Port      int
	BatchMode bool // never prompt
	Timeout   time.Duration
}

type sftpClient interface {
	Lstat(string) (os.FileInfo, error)
	ReadDir(string) ([]os.FileInfo, error)
	RealPath(string) (string, error)
}

var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

var sshNewClientConn = func(conn net.Conn, addr string, config *ssh.ClientConfig) (ssh.Conn, <-chan ssh.NewChannel, <-chan *ssh.Request, error) {
	return ssh.NewClientConn(conn, addr, config)
}

// SFTPFS reads a remote filesystem. SFTP reports no inode or block data, so
// scans over it use logical sizes rounded to the remote block size.
type SFTPFS struct {
	client    sftpClient
	closer    io.Closer
	blockSize int64

	// Directory listings already carry lstat results; keep them until the
	// walker asks, saving one round trip per entry.
	mu     sync.Mutex
	listed map[string]os.FileInfo
}

// NewSFTPFS wraps an established client. closer may be nil.
func NewSFTPFS(client sftpClient, closer io.Closer) *SFTPFS {
	return &SFTPFS{
		client:    client,
		closer:    closer,
		blockSize: model.DefaultBlockSize,
		listed:    make(map[string]os.FileInfo),
	}
}

// Dial connects to cfg.Target and starts the SFTP subsystem.
func Dial(ctx context.Context, cfg Config) (*SFTPFS, error) {
	client, closer, err := dialSFTP(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewSFTPFS(client, closer), nil
}

// Resolve turns a user-supplied remote path into an absolute one and
// records the remote block size for it.
func (f *SFTPFS) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultRemotePath
	}
	root := cleanRemotePath(p)
	resolved, err := f.client.RealPath(root)
	if err != nil {
		return "", fmt.Errorf("cannot resolve remote path %q: %w", root, err)
	}
	resolved = cleanRemotePath(resolved)
	f.blockSize = remoteBlockSize(f.client, resolved)
	return resolved, nil
}

func (f *SFTPFS) Lstat(p string) (fs.FileInfo, error) {
	p = cleanRemotePath(p)
	f.mu.Lock()
	info, ok := f.listed[p]
	delete(f.listed, p)
	f.mu.Unlock()
	if ok {
		return info, nil
	}
	return f.client.Lstat(p)
}

func (f *SFTPFS) ReadDirNames(p string) ([]string, error) {
	dir := cleanRemotePath(p)
	infos, err := f.client.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	f.mu.Lock()
	for _, info := range infos {
		name := info.Name()
		if name == "." || name == ".." {
			continue
		}
		names = append(names, name)
		f.listed[pathpkg.Join(dir, name)] = info
	}
	f.mu.Unlock()
	return names, nil
}

func (f *SFTPFS) Join(elem ...string) string { return pathpkg.Join(elem...) }

// BlockSize is the remote filesystem's fragment size, or the default.
func (f *SFTPFS) BlockSize() int64 { return f.blockSize }

// Close ends the SFTP session and the SSH connection.
func (f *SFTPFS) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func cleanRemotePath(p string) string {
	if p == "" {
		return defaultRemotePath
	}
	clean := pathpkg.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "" {
		return defaultRemotePath
	}
	return clean
}

func remoteBlockSize(client sftpClient, rootPath string) int64 {
	vfsClient, ok := client.(interface {
		StatVFS(path string) (*sftp.StatVFS, error)
	})
	if !ok {
		return model.DefaultBlockSize
	}

	stat, err := vfsClient.StatVFS(rootPath)
	if err != nil || stat == nil {
		logging.Debug.Printf("statvfs %s unavailable: %v", rootPath, err)
		return model.DefaultBlockSize
	}
	if stat.Frsize > 0 && stat.Frsize <= uint64(maxInt64) {
		return int64(stat.Frsize)
	}
	if stat.Bsize > 0 && stat.Bsize <= uint64(maxInt64) {
		return int64(stat.Bsize)
	}
	return model.DefaultBlockSize
}

func dialSFTP(ctx context.Context, cfg Config) (sftpClient, io.Closer, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, nil, fmt.Errorf("ssh port must be between 1 and 65535")
	}

	user, host, err := parseSSHTarget(cfg.Target)
	if err != nil {
		return nil, nil, err
	}

	hosts, err := openKnownHosts(host, cfg.Port, cfg.BatchMode)
	if err != nil {
		return nil, nil, err
	}
	auth, err := buildAuthMethods(user, host, cfg.BatchMode)
	if err != nil {
		return nil, nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sshConfig := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hosts.callback,
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", cfg.Port))
	logging.Debug.Printf("ssh: connecting to %s as %s", addr, user)
	sshClient, err := connectSSH(dialCtx, addr, sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("SSH connection failed: %w", err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, fmt.Errorf("cannot start SFTP subsystem: %w", err)
	}
	return client, &remoteCloser{ssh: sshClient, sftp: client}, nil
}

func connectSSH(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	conn, err := dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Cancellation must interrupt the handshake as well.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := sshNewClientConn(conn, addr, config)
	close(done)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type remoteCloser struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (c *remoteCloser) Close() error {
	var retErr error
	if c.sftp != nil {
		if err := c.sftp.Close(); err != nil {
			retErr = err
		}
	}
	if c.ssh != nil {
		if err := c.ssh.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}
	return retErr
}
