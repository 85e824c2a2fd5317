package domain

import "path/filepath"

const (
	// CarveDirName is the name of the internal workspace directory.
	CarveDirName = ".carve"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "carve.yaml"

	// DaemonSocketFile is the name of the worker daemon's Unix socket.
	DaemonSocketFile = "worker.sock"

	// DaemonPIDFile is the name of the worker daemon's PID file.
	DaemonPIDFile = "worker.pid"

	// DaemonLogFile is the name of the worker daemon's log file.
	DaemonLogFile = "worker.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission applied to the daemon socket (rw-------).
	SocketPerm = 0o600
)

// DefaultDaemonSocketPath returns the default path for the worker daemon socket.
// It joins .carve and worker.sock.
func DefaultDaemonSocketPath() string {
	return filepath.Join(CarveDirName, DaemonSocketFile)
}

// DefaultDaemonPIDPath returns the default path for the worker daemon PID file.
func DefaultDaemonPIDPath() string {
	return filepath.Join(CarveDirName, DaemonPIDFile)
}

// DefaultDaemonLogPath returns the default path for the worker daemon log.
func DefaultDaemonLogPath() string {
	return filepath.Join(CarveDirName, DaemonLogFile)
}
