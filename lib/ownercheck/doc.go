// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package ownercheck runs the verification handshake between the
// installer, Discord, and the operator.
//
// [Verify] drives a [Gateway] through a fixed sequence of states:
//
//	Disconnected -> Connecting -> Ready -> Closed
//	                     \
//	                      -> Failed
//
// Once ready, the operator confirms the bot account is theirs, the
// owner receives a direct message and confirms it arrived, and the
// bot's guilds are searched for the owner. The first guild containing
// the owner becomes the home guild. The gateway is closed on every path
// out of Verify, and the outcome is returned as a [Result] value rather
// than left in shared state.
package ownercheck
