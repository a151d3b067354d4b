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
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/localnerve/jam-build-formsdb/internal/services"
)

func main() {
	var quiet, compact bool
	flag.BoolVar(&quiet, "q", false, "report through the exit code only")
	flag.BoolVar(&compact, "c", false, "print the result on one line")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to both pools the server uses
	appDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(appDB)

	publicDB, err := database.ConnectPublic(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to public database: %v", err)
	}
	defer database.Close(publicDB)

	result := services.HealthCheck(cfg, appDB, publicDB)

	if !quiet {
		printResult(result, compact)
	}

	// Exit with appropriate code
	if !result.Healthy() {
		database.Close(publicDB)
		database.Close(appDB)
		os.Exit(1)
	}
}

func printResult(result services.HealthCheckResult, compact bool) {
	var (
		output []byte
		err    error
	)
	if compact {
		output, err = json.Marshal(result)
	} else {
		output, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))
}
