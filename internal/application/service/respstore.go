package service

import "context"

// ResponseStore persists generated response and export files under the
// configured download directory and returns the file name it wrote.
type ResponseStore interface {
	WriteJSON(ctx context.Context, fileName string, payload any) (string, error)
	WriteCSV(ctx context.Context, fileName string, header []string, rows [][]string) (string, error)
	WriteExcel(ctx context.Context, fileName string, sheet string, header []string, rows [][]string) (string, error)
}
