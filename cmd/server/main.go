package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atendhub/mercadolivre-integration/accounts"
	accountrepo "github.com/atendhub/mercadolivre-integration/accounts/gormrepo"
	"github.com/atendhub/mercadolivre-integration/contacts"
	contactrepo "github.com/atendhub/mercadolivre-integration/contacts/gormrepo"
	"github.com/atendhub/mercadolivre-integration/hooks"
	hookrepo "github.com/atendhub/mercadolivre-integration/hooks/gormrepo"
	"github.com/atendhub/mercadolivre-integration/integration"
	"github.com/atendhub/mercadolivre-integration/internal/config"
	"github.com/atendhub/mercadolivre-integration/mercadolivre"
	"github.com/atendhub/mercadolivre-integration/server"
	"github.com/atendhub/mercadolivre-integration/statetoken"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}

	repos := integration.Repos{
		Hooks:    hookrepo.New(db),
		Accounts: accountrepo.New(db),
	}
	states := statetoken.NewIssuer(c)
	mlClient := mercadolivre.NewClient(c)
	svc := integration.NewService(repos, mlClient, states, c)

	httpServer := &http.Server{
		Addr:    c.GetPort(),
		Handler: server.New(c, svc, repos.Accounts, contactrepo.New(db)),
	}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func openDatabase(c config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&accounts.Account{}, &contacts.Contact{}, &hooks.Hook{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
