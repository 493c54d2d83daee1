// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package tagver derives structured version information from
// version-control tags, and renders it into the PEP 440, Semantic
// Versioning, or Haskell PVP conventions.
//
// The package itself performs no I/O; it is the pure middle of the
// pipeline.  A VCS adapter (see pkg/vcs) enumerates tags and commit
// facts, Match picks the tag and extracts fields, a Version is built
// from the two, and Version.Serialize renders a string that is
// guaranteed to satisfy the target style's grammar.
package tagver
