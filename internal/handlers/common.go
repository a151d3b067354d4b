// common.go
//
// Form builder and submission collection service for jam-build
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/middleware"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
)

// respondError renders a service error. Typed errors keep their status;
// anything else is logged and reported as a 500 of type op.
func respondError(c *fiber.Ctx, err error, op string) error {
	if ce, ok := types.AsCustomError(err); ok {
		return utils.CustomErrorResponse(c, ce)
	}
	log.Printf("%s failed: %v", op, err)
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// badRequest reports a body or parameter that could not be parsed.
func badRequest(c *fiber.Ctx, message, op string) error {
	return utils.ErrorResponse(c, message, fiber.StatusBadRequest, op)
}

// owner returns the authenticated owner, or "" when the route is unguarded.
func owner(c *fiber.Ctx) string {
	return middleware.Owner(c)
}

// parsePage reads limit and offset query parameters.
func parsePage(c *fiber.Ctx) store.Page {
	return store.Page{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

// param returns a trimmed route parameter.
func param(c *fiber.Ctx, name string) string {
	return strings.TrimSpace(c.Params(name))
}
