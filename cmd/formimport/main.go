// main.go
//
// Form builder and submission collection service for jam-build
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/localnerve/jam-build-formsdb/internal/formdef"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/store"
)

func main() {
	file := flag.String("file", "", "YAML form definition")
	owner := flag.String("owner", "", "owner id, overrides the definition")
	yes := flag.Bool("yes", false, "do not ask for confirmation")
	flag.Parse()

	if err := run(*file, *owner, *yes); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			log.Println("Import cancelled")
			os.Exit(130)
		}
		log.Fatalf("Import failed: %v", err)
	}
}

func required(ans interface{}) error {
	if s, ok := ans.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func run(file, owner string, yes bool) error {
	if file == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Form definition file:",
			Suggest: func(prefix string) []string {
				matches, _ := filepath.Glob(prefix + "*")
				return matches
			},
		}, &file, survey.WithValidator(required)); err != nil {
			return err
		}
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	def, err := formdef.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	if owner != "" {
		def.Owner = owner
	}
	if def.Owner == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Owner id:",
			Help:    "The Authorizer user id the form will belong to",
		}, &def.Owner, survey.WithValidator(required)); err != nil {
			return err
		}
	}

	inputs, err := def.Inputs()
	if err != nil {
		return err
	}

	if !yes {
		proceed := false
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Create %q with %d fields for %s?", def.Title, len(inputs), def.Owner),
			Default: true,
		}, &proceed); err != nil {
			return err
		}
		if !proceed {
			return terminal.InterruptErr
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx := context.Background()
	forms := services.NewFormService(store.NewGormStore(db))

	form, err := forms.CreateForm(ctx, def.Owner, def.Form())
	if err != nil {
		return err
	}
	if len(inputs) > 0 {
		if _, err := forms.AddFields(ctx, def.Owner, form.ID, inputs); err != nil {
			// leave nothing half imported
			if delErr := forms.DeleteForm(ctx, def.Owner, form.ID); delErr != nil {
				log.Printf("Failed to remove partial form %s: %v", form.ID, delErr)
			}
			return err
		}
	}
	if def.Publish {
		if form, err = forms.TogglePublish(ctx, def.Owner, form.ID); err != nil {
			return err
		}
	}

	log.Printf("Imported form %s as /%s/%s (published=%t)", form.ID, form.OwnerID, form.Slug, form.Published)
	return nil
}
