// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "code.hybscloud.com/atomix"

// settleGuard is an atomic claim-once primitive. Race branches use it to
// decide which settlement arrived first without trusting channel ordering,
// and runEnv teardown uses it for idempotence.
type settleGuard struct {
	used atomix.Uint32
}

// claim returns true for exactly one caller.
func (g *settleGuard) claim() bool {
	return g.used.Add(1) == 1
}
