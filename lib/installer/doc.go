// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package installer runs the first-run setup of a Unifier checkout.
//
// [Run] is one linear pass:
//
//  1. load boot/internal.json and boot_config.json
//  2. detect a container and decide hosting-panel support
//  3. select the install option
//  4. check the Python runtime version
//  5. collect the owner ID, bot token, and store passphrase
//  6. open the token store and load config.toml, so a wrong
//     passphrase or a malformed config fails before Discord is contacted
//  7. run the owner verification handshake (package ownercheck)
//  8. save the token, then config.toml, then .install.json
//
// Nothing is written before step 8. The three writes are not a
// transaction: an interruption between them leaves a checkout that a
// rerun repairs.
//
// Every collaborator that touches the network, the terminal, or a
// subprocess is injected through [Dependencies], so the whole flow runs
// under test with fakes.
package installer
