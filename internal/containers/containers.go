// containers.go
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

// Package containers starts the databases and the Authorizer in docker for
// integration tests and local development.
package containers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/jam-build-formsdb/data"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Logf receives progress messages. testing.T.Logf and log.Printf both fit.
type Logf func(format string, args ...any)

// Stack is a running database, and optionally an Authorizer, on a private
// network.
type Stack struct {
	Network    *testcontainers.DockerNetwork
	Database   testcontainers.Container
	Authorizer testcontainers.Container

	// Config reaches the containers from the host.
	Config *config.Config
}

// Options selects images and credentials. Zero values are read from the
// environment the same way the server reads them.
type Options struct {
	DBType       string
	DBImage      string
	RootPassword string
	// HostPort pins the database to a fixed host port instead of a random one.
	HostPort string

	AuthzImage  string
	AuthzPort   string
	AuthzDBName string
}

// OptionsFromEnv reads DB_TYPE, DB_IMAGE, DB_ROOT_PASSWORD, DB_HOST_PORT,
// AUTHZ_IMAGE, AUTHZ_PORT and AUTHZ_DATABASE.
func OptionsFromEnv() Options {
	return Options{
		DBType:       envOr("DB_TYPE", "mariadb"),
		DBImage:      os.Getenv("DB_IMAGE"),
		RootPassword: envOr("DB_ROOT_PASSWORD", "rootpass"),
		HostPort:     os.Getenv("DB_HOST_PORT"),
		AuthzImage:   os.Getenv("AUTHZ_IMAGE"),
		AuthzPort:    envOr("AUTHZ_PORT", "9011"),
		AuthzDBName:  envOr("AUTHZ_DATABASE", "authorizer"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

const dbAlias = "formsdb-db"

// Start runs the database container, provisions the public collector user
// and, when an Authorizer image is set, starts the Authorizer against the
// same database server.
func Start(ctx context.Context, opts Options, logf Logf) (*Stack, error) {
	if opts.DBImage == "" {
		return nil, fmt.Errorf("no database image configured")
	}
	stack := &Stack{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	stack.Network = nw

	internalPort, env := dbContainerSpec(opts)
	tcpPort, err := nat.NewPort("tcp", internalPort)
	if err != nil {
		stack.Terminate(logf)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:              opts.DBImage,
			ExposedPorts:       []string{string(tcpPort)},
			Env:                env,
			HostConfigModifier: pinPort(tcpPort, opts.HostPort),
			WaitingFor:         wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
			Networks:           []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(logf)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	stack.Database = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		stack.Terminate(logf)
		return nil, err
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpPort)
	if err != nil {
		stack.Terminate(logf)
		return nil, err
	}

	stack.Config = &config.Config{
		DBType:               opts.DBType,
		DBHost:               host,
		DBPort:               mapped.Port(),
		DBAppDatabase:        "formsdb",
		DBAppUser:            "formsdb_app",
		DBAppPassword:        "apppass",
		DBAppConnectionLimit: 5,
		DBUser:               "formsdb_public",
		DBPassword:           "publicpass",
		DBConnectionLimit:    5,
		SubmissionPageLimit:  100,
	}
	logf("Database %s listening at %s:%s", opts.DBImage, host, mapped.Port())

	if err := provision(ctx, stack.Config, opts, logf); err != nil {
		stack.Terminate(logf)
		return nil, err
	}

	if opts.AuthzImage != "" {
		if err := stack.startAuthorizer(ctx, opts, internalPort, logf); err != nil {
			stack.Terminate(logf)
			return nil, err
		}
	}
	return stack, nil
}

func dbContainerSpec(opts Options) (string, map[string]string) {
	if opts.DBType == "postgres" {
		return "5432", map[string]string{
			"POSTGRES_PASSWORD": "apppass",
			"POSTGRES_USER":     "formsdb_app",
			"POSTGRES_DB":       "formsdb",
		}
	}
	return "3306", map[string]string{
		"MYSQL_ROOT_PASSWORD": opts.RootPassword,
		"MYSQL_DATABASE":      "formsdb",
		"MYSQL_USER":          "formsdb_app",
		"MYSQL_PASSWORD":      "apppass",
	}
}

// pinPort binds port to a fixed host port when one is requested.
func pinPort(port nat.Port, hostPort string) func(*container.HostConfig) {
	return func(hostConfig *container.HostConfig) {
		if hostPort == "" {
			return
		}
		hostConfig.PortBindings = nat.PortMap{
			port: []nat.PortBinding{
				{HostIP: "127.0.0.1", HostPort: hostPort},
			},
		}
	}
}

// provision migrates the schema as the app user and creates the public
// collector user with its grants.
func provision(ctx context.Context, cfg *config.Config, opts Options, logf Logf) error {
	appDB, err := connectWithRetry(ctx, cfg, cfg.DBAppUser, cfg.DBAppPassword)
	if err != nil {
		return err
	}
	defer database.Close(appDB)
	if err := database.AutoMigrate(appDB); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	adminUser, adminPassword, script := "root", opts.RootPassword, data.InitdbMariaDBPublicUser
	if opts.DBType == "postgres" {
		adminUser, adminPassword, script = cfg.DBAppUser, cfg.DBAppPassword, data.InitdbPostgresPublicUser
	}
	adminDB, err := connectWithRetry(ctx, cfg, adminUser, adminPassword)
	if err != nil {
		return err
	}
	defer database.Close(adminDB)

	rendered, err := render(script, cfg)
	if err != nil {
		return err
	}
	if err := executeSQL(adminDB, opts.DBType, rendered); err != nil {
		return fmt.Errorf("failed to provision public user: %w", err)
	}
	logf("Provisioned public user %s", cfg.DBUser)
	return nil
}

func connectWithRetry(ctx context.Context, cfg *config.Config, user, password string) (*gorm.DB, error) {
	dialector, err := database.Dialector(cfg, user, password)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if lastErr = sqlDB.PingContext(ctx); lastErr == nil {
					return db, nil
				}
				sqlDB.Close()
			} else {
				lastErr = dbErr
			}
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil, fmt.Errorf("database not ready after 30 seconds: %w", lastErr)
}

func render(script string, cfg *config.Config) (string, error) {
	tmpl, err := template.New("initdb").Parse(script)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Database string
		User     string
		Password string
	}{cfg.DBAppDatabase, cfg.DBUser, cfg.DBPassword})
	return buf.String(), err
}

// executeSQL runs a provisioning script. MySQL takes one statement per call;
// postgres runs the whole script, which may contain DO blocks.
func executeSQL(db *gorm.DB, dbType, script string) error {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	script = strings.Join(lines, "\n")

	if dbType == "postgres" {
		return db.Exec(script).Error
	}
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%w: when executing > %s", err, strings.TrimSpace(stmt))
		}
	}
	return nil
}

func (s *Stack) startAuthorizer(ctx context.Context, opts Options, dbPort string, logf Logf) error {
	tcpPort, err := nat.NewPort("tcp", opts.AuthzPort)
	if err != nil {
		return fmt.Errorf("failed to create Authorizer port: %w", err)
	}

	dbType, dbURL := "mariadb", fmt.Sprintf("root:%s@tcp(%s:%s)/%s", opts.RootPassword, dbAlias, dbPort, opts.AuthzDBName)
	if opts.DBType == "postgres" {
		dbType = "postgres"
		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			s.Config.DBAppUser, s.Config.DBAppPassword, dbAlias, dbPort, s.Config.DBAppDatabase)
	} else {
		adminDB, err := connectWithRetry(ctx, s.Config, "root", opts.RootPassword)
		if err != nil {
			return err
		}
		err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", opts.AuthzDBName)).Error
		database.Close(adminDB)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.AuthzDBName, err)
		}
	}

	authz, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.AuthzImage,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     envOr("AUTHZ_CLIENT_ID", "formsdb"),
				"PORT":          opts.AuthzPort,
				"DATABASE_TYPE": dbType,
				"DATABASE_NAME": opts.AuthzDBName,
				"DATABASE_URL":  dbURL,
				"ADMIN_SECRET":  envOr("AUTHZ_ADMIN_SECRET", "admin"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{s.Network.Name},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start Authorizer: %w", err)
	}
	s.Authorizer = authz

	host, _ := authz.Host(ctx)
	mapped, _ := authz.MappedPort(ctx, tcpPort)
	s.Config.AuthzURL = fmt.Sprintf("http://%s:%s", host, mapped.Port())
	s.Config.AuthzClientID = envOr("AUTHZ_CLIENT_ID", "formsdb")
	logf("Authorizer listening at %s", s.Config.AuthzURL)
	return nil
}

// Terminate stops every container and removes the network.
func (s *Stack) Terminate(logf Logf) {
	ctx := context.Background()
	if s.Authorizer != nil {
		if err := s.Authorizer.Terminate(ctx); err != nil {
			logf("Failed to terminate Authorizer: %v", err)
		}
	}
	if s.Database != nil {
		if err := s.Database.Terminate(ctx); err != nil {
			logf("Failed to terminate database: %v", err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			logf("Failed to remove network: %v", err)
		}
	}
}

// Env renders the stack's connection settings as KEY=value lines for an
// ENV_FILE.
func (s *Stack) Env() string {
	cfg := s.Config
	lines := []string{
		"DB_TYPE=" + cfg.DBType,
		"DB_HOST=" + cfg.DBHost,
		"DB_PORT=" + cfg.DBPort,
		"DB_APP_DATABASE=" + cfg.DBAppDatabase,
		"DB_APP_USER=" + cfg.DBAppUser,
		"DB_APP_PASSWORD=" + cfg.DBAppPassword,
		"DB_USER=" + cfg.DBUser,
		"DB_PASSWORD=" + cfg.DBPassword,
	}
	if cfg.AuthzURL != "" {
		lines = append(lines, "AUTHZ_URL="+cfg.AuthzURL, "AUTHZ_CLIENT_ID="+cfg.AuthzClientID)
	}
	return strings.Join(lines, "\n") + "\n"
}
