package transport

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// SFTPConfig holds the connection settings for the partner's SFTP site.
type SFTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// SFTPStore implements FileStore over SFTP. Each operation dials a fresh
// session; partner sites aggressively drop idle connections, so holding one
// open between poll cycles is not worth the reconnect handling.
type SFTPStore struct {
	cfg    SFTPConfig
	logger ectologger.Logger
}

func NewSFTPStore(cfg SFTPConfig, logger ectologger.Logger) *SFTPStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SFTPStore{cfg: cfg, logger: logger}
}

func (s *SFTPStore) connect(ctx context.Context) (*sftp.Client, *ssh.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.cfg.Timeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"host": s.cfg.Host}).Error("Failed to dial SFTP host")
		return nil, nil, err
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return client, conn, nil
}

// List returns remote files under dir matching one of the extensions.
func (s *SFTPStore) List(ctx context.Context, dir string, extensions []string) ([]RemoteFile, error) {
	ctx, span := tracing.StartSpan(ctx, "transport.SFTPStore.List")
	defer span.End()

	client, conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	defer client.Close()

	entries, err := client.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []RemoteFile
	for _, entry := range entries {
		if entry.IsDir() || !matchesExtension(entry.Name(), extensions) {
			continue
		}
		files = append(files, RemoteFile{
			Name:       entry.Name(),
			Path:       path.Join(dir, entry.Name()),
			Size:       entry.Size(),
			ModifiedAt: entry.ModTime(),
		})
	}
	return files, nil
}

// Download fetches the file contents at remotePath.
func (s *SFTPStore) Download(ctx context.Context, remotePath string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "transport.SFTPStore.Download")
	defer span.End()

	client, conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	defer client.Close()

	f, err := client.Open(remotePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Archive moves the file into archiveDir under a timestamped name so repeated
// filenames from the partner never collide.
func (s *SFTPStore) Archive(ctx context.Context, remotePath, archiveDir string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "transport.SFTPStore.Archive")
	defer span.End()

	client, conn, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	defer client.Close()

	if err := client.MkdirAll(archiveDir); err != nil {
		return "", err
	}

	archived := path.Join(archiveDir, fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102T150405"), path.Base(remotePath)))
	if err := client.Rename(remotePath, archived); err != nil {
		return "", err
	}
	return archived, nil
}

// Upload writes data to remotePath.
func (s *SFTPStore) Upload(ctx context.Context, remotePath string, data []byte) error {
	ctx, span := tracing.StartSpan(ctx, "transport.SFTPStore.Upload")
	defer span.End()

	client, conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer client.Close()

	if err := client.MkdirAll(path.Dir(remotePath)); err != nil {
		return err
	}

	f, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
