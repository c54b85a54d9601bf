package service

import "github.com/m-mizutani/jirasearch/internal"

var logger = internal.Logger
