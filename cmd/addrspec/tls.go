package main

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

func readPEMBlocks(file string) (cert *pem.Block, key *pem.Block, err error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}
	for {
		var block *pem.Block
		block, b = pem.Decode(b)
		if block == nil {
			break
		}
		switch {
		case block.Type == "CERTIFICATE":
			if cert == nil {
				cert = block
			}
		case strings.HasSuffix(block.Type, "PRIVATE KEY"):
			key = block
		}
	}
	return cert, key, nil
}

// loadServerCertificate reads a certificate and its key, which may sit in the
// same PEM file. An encrypted key is decrypted with passphrase.
func loadServerCertificate(certFile string, keyFile string, passphrase string) (*tls.Config, error) {
	certBlock, keyBlock, err := readPEMBlocks(certFile)
	if err != nil {
		return nil, err
	}
	if certBlock == nil {
		return nil, fmt.Errorf("no certificate found in %s", certFile)
	}
	if keyFile != "" {
		_, keyBlock, err = readPEMBlocks(keyFile)
		if err != nil {
			return nil, err
		}
		if keyBlock == nil {
			return nil, fmt.Errorf("no private key found in %s", keyFile)
		}
	} else if keyBlock == nil {
		return nil, fmt.Errorf("no key found in %s and no key file is specified", certFile)
	}

	if passphrase != "" {
		//nolint:staticcheck // legacy encrypted PEM keys are still around
		b, err := x509.DecryptPEMBlock(keyBlock, []byte(passphrase))
		if err != nil {
			return nil, err
		}
		keyBlock.Bytes = b
		delete(keyBlock.Headers, "Proc-Type")
		delete(keyBlock.Headers, "DEK-Info")
	}
	cert, err := tls.X509KeyPair(pem.EncodeToMemory(certBlock), pem.EncodeToMemory(keyBlock))
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
	}, nil
}
