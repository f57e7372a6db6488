package kv2

import (
	"context"
	"errors"
	"fmt"

	"github.com/hairyhenderson/go-vaultkv/vaultclient"
)

// Reading and writing a secret in the default "secret/" mount.
func Example() {
	ctx := context.Background()

	client, _ := vaultclient.New("https://vault.example.com:8200", "s.mytoken")
	engine := New(client)

	_, _ = engine.CreateOrUpdate(ctx, "app/db", map[string]any{"password": "hunter2"})

	secret, _ := engine.Read(ctx, "app/db")
	fmt.Printf("password: %s\n", secret.Value()["password"])
}

// Using CAS to update a secret only if nobody else changed it in the
// meantime.
func Example_checkAndSet() {
	ctx := context.Background()

	client, _ := vaultclient.New("https://vault.example.com:8200", "s.mytoken")
	engine := New(client, WithMount("kv"))

	secret, _ := engine.Read(ctx, "app/db")
	v, _ := secret.CurrentVersion()

	_, err := engine.CreateOrUpdate(ctx, "app/db", map[string]any{"password": "hunter3"}, CAS(v))

	cerr := &vaultclient.ClientError{}
	if errors.Is(err, ErrSecretWrite) && errors.As(err, &cerr) && !cerr.Transport() {
		fmt.Println("someone else updated app/db first")
	}
}
