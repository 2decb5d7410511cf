// Command hitboxd runs the definition service: it stores entity
// definitions and sprite sheets and serves them to the hitbox editor.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hitbox-editor/internal/asset"
	"hitbox-editor/internal/definition"
	"hitbox-editor/internal/server"
	"hitbox-editor/internal/version"
)

var log = logrus.WithField("component", "hitboxd")

var (
	dbPath string
	addr   string
)

var rootCmd = &cobra.Command{
	Use:     "hitboxd",
	Short:   "Definition service for the hitbox editor",
	Version: version.String(),
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := server.OpenStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open store %s: %w", dbPath, err)
		}
		defer store.Close()

		log.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("serving definitions")
		return http.ListenAndServe(addr, server.New(store))
	},
}

// seedEntry pairs a definition with the local sprite file to import for it.
type seedEntry struct {
	Key        string                `json:"key"`
	Definition definition.Definition `json:"definition"`
	SpriteFile string                `json:"sprite_file,omitempty"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [manifest.json]",
	Short: "Load definitions and sprite files into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var entries []seedEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("malformed manifest: %w", err)
		}

		store, err := server.OpenStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open store %s: %w", dbPath, err)
		}
		defer store.Close()

		for _, e := range entries {
			if err := definition.ValidateKey(e.Key); err != nil {
				return err
			}
			if e.SpriteFile != "" {
				img, err := asset.LoadFile(e.SpriteFile)
				if err != nil {
					return fmt.Errorf("sprite for %s: %w", e.Key, err)
				}
				png, err := asset.EncodePNG(img)
				if err != nil {
					return err
				}
				if err := server.ImportSprite(store, e.Definition.SpritePath, png); err != nil {
					return fmt.Errorf("sprite for %s: %w", e.Key, err)
				}
			}
			if err := store.PutDefinition(e.Key, &e.Definition); err != nil {
				return err
			}
			log.WithField("key", e.Key).Info("seeded definition")
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "hitboxd.db", "path to the bbolt database")
	rootCmd.Flags().StringVar(&addr, "addr", ":8640", "listen address")
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
