// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	_ "embed"
	"math/rand"
	"strings"
)

//go:embed agent-names.txt
var agentNamesRaw string

var agentNames = strings.Split(strings.TrimSpace(agentNamesRaw), "\n")

var agentChatLines = []string{
	"anyone near the central plains?",
	"found a cave below the sand",
	"heading east",
	"this tree is mine",
	"who took my stone?",
	"the water goes down forever here",
	"building a bridge, one sec",
	"follow me",
}

func randomAgentName(r *rand.Rand) (name string) {
	for name == "" {
		name = agentNames[r.Intn(len(agentNames))]
	}

	if prob(r, 0.1) {
		name = strings.ToUpper(name)
	}
	return
}
