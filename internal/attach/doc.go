// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach manages the pending file attachment of a chat session.
//
// At most one attachment is pending at a time. Selecting a new file
// replaces the previous selection, revoking any preview resource the
// replaced selection still owned. Materializing the pending attachment
// derives the chat message to append and transfers ownership of the
// preview resource to that message; from then on the manager only acts
// as the bookkeeper that guarantees each preview is revoked exactly
// once, no matter how teardown and explicit removal interleave.
//
// Preview resources are produced by a Previewer capability. The
// production implementation copies the selected file into a per-session
// temporary directory and hands out the copy's path; revoking removes
// the copy. Tests substitute an in-memory previewer.
package attach
