// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the installer's own settings: where the bot's
// files live, which environment variables carry secrets, the gateway
// timeout, the Python interpreter to probe, and the token store's
// scrypt cost.
//
// Every field has a default matching a stock Unifier checkout, so most
// operators never write a config file. When one is needed it is a YAML
// file named by --config or by the UNIFIER_INSTALL_CONFIG environment
// variable. No other discovery happens.
//
// Path fields support ${VAR} and ${VAR:-default} expansion after
// loading; ${INSTALL_ROOT} refers to paths.root. Relative paths are
// resolved against paths.root by [Config.Path].
package config
