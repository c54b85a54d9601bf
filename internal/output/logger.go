package output

import "github.com/m-mizutani/jirasearch/internal"

var logger = internal.Logger
