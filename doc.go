/*
Copyright (c) 2018-2019 The c4exnet developers
Copyright (c) 2013-2018 The btcsuite developers
Copyright (c) 2015-2016 The Decred developers
Copyright (c) 2013-2014 Conformal Systems LLC.
Use of this source code is governed by an ISC
license that can be found in the LICENSE file.

Pold is a proof-of-liabilities accounting tool for Cashu-style ecash mints
written in Go.

It keeps a local ledger of verified mint and burn proofs, organized into
fixed-duration epochs, and prints a liabilities report: the total
outstanding balance, per-epoch totals with their proof-multiset
commitments, and a rollup of the epochs whose individual records were
already pruned.

Each run is one-shot: pold loads its configuration, opens the ledger
database, optionally records the operations given on the command line, and
prints the current report as JSON before exiting.

Usage:

	pold [OPTIONS]

Record a verified mint proof (JSON in the Cashu wire form):

	pold --mintproof '{"amount": 1000, "id": "009a1f293253e41e", "secret": "...", "C": "02..."}'

Record a burn of a redemption secret:

	pold --burnsecret <secret> --burnamount 400

Check whether an identifier is recorded in the retained epochs:

	pold --checksecret <secret-or-commitment>

For an up-to-date help message:

	pold --help

The long form of all option flags (except -C) can be specified in a configuration
file that is automatically parsed when pold starts up. By default, the
configuration file is located at ~/.pold/pold.conf on POSIX-style operating
systems and %LOCALAPPDATA%\pold\pold.conf on Windows. The -C (--configfile)
flag can be used to override this location.
*/
package main
