// Package main provides the entry point for the hitbox editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"hitbox-editor/internal/client"
	"hitbox-editor/internal/session"
	"hitbox-editor/internal/version"
	"hitbox-editor/ui/mainwindow"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8640", "definition service URL")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <entity-key>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	key := flag.Arg(0)

	log := logrus.WithField("component", "main")
	log.WithFields(logrus.Fields{
		"version": version.String(),
		"key":     key,
		"server":  *serverURL,
	}).Info("starting hitbox editor")

	fyneApp := fyneapp.NewWithID("io.hitbox.editor")

	sess := session.New(client.New(*serverURL), key)
	win := mainwindow.New(fyneApp, sess)

	// The one fatal condition: no definition to edit.
	if err := sess.Start(context.Background()); err != nil {
		log.WithError(err).Fatal("cannot start editing session")
	}

	win.ShowAndRun()
}
