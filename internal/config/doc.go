// Package config loads and saves the bgmTTY settings file.
//
// # Overview
//
// Settings live in ~/.config/bgmtty/bgmtty.yml and hold the bgm.tv
// application credentials plus the OAuth token issued for the user:
//
//	credentials:
//	  client_id: bgm1234
//	  client_secret: secret
//	auth:
//	  access_token: token
//	  user_id: 1
//	  refresh_token: refresh
//	  expires_in: 604800
//	  time: 1700000000
//	  redirect: https://example.com/callback
//
// # Loading
//
// Load returns ErrNotInitialized (wrapped with the resolved path) when the
// file does not exist, so the caller can point the user at --init. A present
// but unparsable file is an error. Paths starting with ~ are expanded with
// go-homedir.
//
// # Token Lifetime
//
// Auth.Outdated reports an expired token; Auth.RequiresRefresh reports that a
// fifth of the lifetime has passed. A zero expires_in means the lifetime is
// unknown and the token is used as-is.
//
// # Saving
//
// Save creates the directory with 0700 and the file with 0600, since it
// contains secrets. Logout clears the auth section and keeps the
// credentials.
package config
