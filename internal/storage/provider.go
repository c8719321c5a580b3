package storage

import "archivist/internal/structures"

// NewBackupCompressor selects the codec for the backup store file.
func NewBackupCompressor(conf *structures.Config) (Compressor, error) {
	if conf.Storage.CompressBackups {
		return NewZstdCompressor()
	}
	return PlainCompression{}, nil
}
