package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab/rag"
)

var (
	ragPaths []string
	ragTopK  int
)

var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Local retrieval-augmented generation",
}

var ragQueryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Index files and answer a question from them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		embedder, err := embeddingModel(ctx)
		if err != nil {
			return err
		}
		model, err := languageModel(ctx, "")
		if err != nil {
			return err
		}

		engine := rag.NewEngine(embedder, model)
		docs, err := loadDocuments(ragPaths)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no documents found under %v", ragPaths)
		}

		count, err := engine.IndexDocuments(ctx, docs...)
		if err != nil {
			return err
		}
		fmt.Printf("indexed %d chunks from %d documents\n\n", count, len(docs))

		answer, err := engine.Query(ctx, strings.Join(args, " "), ragTopK)
		if err != nil {
			return err
		}

		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Println("\nSources:")
			for i, source := range answer.Sources {
				fmt.Printf("  [%d] %s (score %.3f)\n", i+1, source.Chunk.ID, source.Score)
			}
		}
		return nil
	},
}

var ragIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk and embed files, reporting index statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		embedder, err := embeddingModel(ctx)
		if err != nil {
			return err
		}
		model, err := languageModel(ctx, "")
		if err != nil {
			return err
		}

		engine := rag.NewEngine(embedder, model)
		docs, err := loadDocuments(ragPaths)
		if err != nil {
			return err
		}

		count, err := engine.IndexDocuments(ctx, docs...)
		if err != nil {
			return err
		}
		fmt.Printf("documents: %d\nchunks: %d\n", len(docs), count)
		return nil
	},
}

func init() {
	ragCmd.PersistentFlags().StringSliceVarP(&ragPaths, "path", "p", []string{"."}, "files or directories to index")
	ragQueryCmd.Flags().IntVarP(&ragTopK, "top-k", "k", 4, "number of chunks to retrieve")
	ragCmd.AddCommand(ragIndexCmd, ragQueryCmd)
	rootCmd.AddCommand(ragCmd)
}

// loadDocuments reads .txt and .md files from the given files or
// directories.
func loadDocuments(paths []string) ([]rag.Document, error) {
	var docs []rag.Document
	addFile := func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, rag.Document{ID: path, Content: string(data)})
		return nil
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := addFile(path); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			switch filepath.Ext(p) {
			case ".txt", ".md":
				return addFile(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}
