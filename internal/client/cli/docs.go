package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/printdesk/internal/filex"
	"github.com/dmitrijs2005/printdesk/internal/netx"
)

func (a *App) listDocuments(ctx context.Context) {
	docs, err := a.api.ListDocuments(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	for _, d := range docs {
		fmt.Fprintf(a.out, "%s  %-30s %s\n", d.ID, d.Title, d.Description)
	}
}

// fetchDocument downloads a document's content into ./downloads.
func (a *App) fetchDocument(ctx context.Context, id string) {
	url, err := a.api.GetDocumentURL(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}

	data, err := netx.DownloadFromPresignedURL(url)
	if err != nil {
		log.Printf("download failed: %v", err)
		return
	}

	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	path := filepath.Join(dir, id)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Printf("error saving file: %v", err)
		return
	}
	log.Printf("Saved to %s", path)
}

// addDocument registers a document and uploads a local file (admin only).
func (a *App) addDocument(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	path, err := GetSimpleText(a.reader, "File path", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error reading file: %v", err)
		return
	}

	created, err := a.api.CreateDocument(ctx, title, description)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if err := netx.UploadToS3PresignedURL(created.UploadURL, data); err != nil {
		log.Printf("upload failed: %v", err)
		return
	}
	log.Printf("Uploaded %s as document %s", path, created.Document.ID)
}
