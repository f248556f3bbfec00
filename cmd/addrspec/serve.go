package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moriyoshi/addrspec"
)

type ServeCmd struct {
	Bind            string        `name:"bind" help:"Address and port to listen on." env:"ADDRSPEC_BIND" default:"[::0]:60025"`
	BindImplicitTLS string        `name:"bind-implicit-tls" help:"Address and port to listen on, for implicit TLS." env:"ADDRSPEC_BIND_IMPLICIT_TLS" optional:""`
	Certificate     string        `name:"certificate" help:"Path to the certificate file." env:"ADDRSPEC_CERTIFICATE" optional:""`
	PrivateKey      string        `name:"private-key" help:"Path to the private key file." env:"ADDRSPEC_PRIVATE_KEY" optional:""`
	Passphrase      string        `name:"passphrase" help:"Passphrase for the private key file." env:"ADDRSPEC_PASSPHRASE" optional:""`
	Hostname        string        `name:"hostname" help:"Host name to be used in the SMTP banner." env:"ADDRSPEC_HOSTNAME" optional:""`
	Timeout         time.Duration `name:"timeout" help:"Idle timeout of SMTP sessions." env:"ADDRSPEC_TIMEOUT" default:"5m"`
	Spool           string        `name:"spool" help:"Directory to store accepted messages in. Messages are dropped when unset." env:"ADDRSPEC_SPOOL" type:"existingdir" optional:""`
}

func spoolSink(dir string, logger *slog.Logger) addrspec.Sink {
	return func(_ context.Context, origin net.Addr, from string, to []string, data []byte) error {
		f, err := os.CreateTemp(dir, "*.eml")
		if err != nil {
			return err
		}
		_, err = f.Write(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
			return err
		}
		logger.Info("spooled mail", slog.String("path", f.Name()), slog.String("from", from), slog.Any("to", to))
		return nil
	}
}

func (cmd *ServeCmd) newServer(v *addrspec.Validator, logger *slog.Logger) (*addrspec.Server, error) {
	options := []addrspec.ServerOptionFunc{
		addrspec.WithServerLogger(logger),
		addrspec.WithTimeout(cmd.Timeout),
	}
	if cmd.Hostname != "" {
		options = append(options, addrspec.WithHostname(cmd.Hostname))
	}
	if cmd.Certificate != "" {
		tlsConfig, err := loadServerCertificate(cmd.Certificate, cmd.PrivateKey, cmd.Passphrase)
		if err != nil {
			return nil, err
		}
		options = append(options, addrspec.WithTLSConfig(tlsConfig))
	}
	var sink addrspec.Sink
	if cmd.Spool != "" {
		sink = spoolSink(cmd.Spool, logger)
	}
	return addrspec.NewServer(cmd.Bind, cmd.BindImplicitTLS, v, sink, options...)
}

func (cmd *ServeCmd) Run(globals *Globals, app *App) error {
	v, err := addrspec.New(globals.options(app.logger)...)
	if err != nil {
		return err
	}
	server, err := cmd.newServer(v, app.logger)
	if err != nil {
		return err
	}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	defer signal.Stop(sigChan)
	go func() {
		count := 0
		for {
			select {
			case <-app.ctx.Done():
				return
			case <-sigChan:
				count += 1
				if count == 1 {
					app.logger.Warn("received SIGINT, shutting down")
					if err := server.Shutdown(app.ctx); err != nil {
						app.logger.Error("failed to shut down", slog.Any("error", err))
						app.cancel()
					}
				} else {
					app.logger.Warn("received SIGINT again, forcing shutdown")
					app.cancel()
				}
			}
		}
	}()
	return server.Serve(app.ctx)
}
