// ABOUTME: Document CLI commands
// ABOUTME: Listing, searching, and uploading documents
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/nordflytt/flyttcrm/store"
)

// ListDocumentsCommand lists documents in the current folder.
func ListDocumentsCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("list-documents", flag.ExitOnError)
	folder := fs.String("folder", "", "Folder ID to open first")
	_ = fs.Parse(args)

	if *folder != "" {
		if err := stores.Documents.FetchFolders(ctx); err != nil {
			log.Printf("warning: serving cached folders: %v", err)
		}
		if err := stores.Documents.OpenFolder(*folder); err != nil {
			return err
		}
	}
	if err := stores.Documents.FetchDocuments(ctx); err != nil {
		log.Printf("warning: serving cached documents: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTYPE\tSIZE")
	docs := stores.Documents.Documents()
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", d.ID, d.Name, d.Category, d.FileType, d.FileSize)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d document(s)\n", len(docs))
	return nil
}

// SearchDocumentsCommand searches the cached document list.
func SearchDocumentsCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("search-documents", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category")
	fileType := fs.String("type", "", "Filter by file type")
	_ = fs.Parse(args)

	query := ""
	if fs.NArg() > 0 {
		query = fs.Arg(0)
	}

	if err := stores.Documents.FetchDocuments(ctx); err != nil {
		log.Printf("warning: serving cached documents: %v", err)
	}

	matches := stores.Documents.Search(query, store.SearchFilter{
		Category: *category,
		FileType: *fileType,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tLINKED")
	for _, d := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Category, d.LinkedEntityName)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d match(es)\n", len(matches))
	return nil
}

// UploadDocumentCommand uploads a local file.
func UploadDocumentCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("upload-document", flag.ExitOnError)
	folder := fs.String("folder", "", "Target folder ID")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("file path is required")
	}
	path := fs.Arg(0)

	if *folder != "" {
		if err := stores.Documents.FetchFolders(ctx); err != nil {
			log.Printf("warning: serving cached folders: %v", err)
		}
		if err := stores.Documents.OpenFolder(*folder); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := stores.Documents.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}

	fmt.Printf("✓ Uploaded: %s (ID: %s)\n", doc.Name, doc.ID)
	return nil
}
