// Package kv2 reads and writes versioned secrets in a Hashicorp Vault KV v2
// secrets engine.
//
// An [Engine] wraps a [vaultclient.Client] and builds the engine's paths
// under its mount:
//
//	/v1/<mount>/data/<path>		// secret values
//	/v1/<mount>/metadata/<path>	// version history, deletion, listing
//	/v1/<mount>/config		// engine-wide settings
//
// # Usage
//
//	client, _ := vaultclient.New("https://vault.example.com:8200", token)
//	engine := kv2.New(client)
//
//	_, err := engine.CreateOrUpdate(ctx, "app/db", map[string]any{"password": "hunter2"})
//	secret, err := engine.Read(ctx, "app/db")
//	fmt.Println(secret.Value()["password"])
//
// # Check-and-set
//
// Writes may be made conditional on the secret's current version with
// [CAS]; CAS(0) only creates a secret that doesn't exist yet. Engines
// configured with CASRequired reject writes without it.
//
// # Errors
//
// All failures are returned as an *[Error], whose Kind is one of
// [ErrSecretRead], [ErrSecretWrite], [ErrConfigure], or [ErrMetadata]. The
// cause (usually a *vaultclient.ClientError) is still reachable with
// errors.As, so a CAS mismatch can be told apart from an unreachable server:
//
//	cerr := &vaultclient.ClientError{}
//	if errors.Is(err, kv2.ErrSecretWrite) && errors.As(err, &cerr) && cerr.StatusCode == 400 {
//		// version conflict
//	}
//
// Numbers in secret values are decoded as [encoding/json.Number].
package kv2
