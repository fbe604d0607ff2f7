/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package build

import (
	"context"
	"errors"
	"path/filepath"

	"bennypowers.dev/wrappa/inspect"
)

// verify checks the finished package against its rewritten manifest.
func (p *Pipeline) verify(ctx context.Context, packageJSONPath string) error {
	report, err := inspect.Check(ctx, p.fs, filepath.Dir(packageJSONPath))
	if err != nil {
		return err
	}

	for _, issue := range report.Issues {
		p.log.Error(issue.Problem, "path", issue.Path)
	}
	if !report.OK() {
		return errors.New("package verification failed")
	}

	p.log.Info("package verified", "targets", len(report.Targets))
	return nil
}
