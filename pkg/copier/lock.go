// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package copier

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// LockFileName is the advisory lock created under the destination root
// for the duration of the copy phase.
const LockFileName = ".treesort.lock"

// AcquireLock takes a non-blocking advisory lock on the destination so
// two runs cannot interleave writes into the same bucket tree. The
// caller releases it with ReleaseLock before rendering.
func AcquireLock(dst string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dst, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring destination lock: %w", err)
	}
	if !locked {
		return nil, errors.Errorf("destination %s is in use by another run", dst)
	}
	return lock, nil
}

// ReleaseLock unlocks and removes the lock file so it never shows up in
// the rendered destination tree.
func ReleaseLock(lock *flock.Flock) {
	path := lock.Path()
	_ = lock.Unlock()
	_ = os.Remove(path)
}
