package api

import "errors"

var errMissingToken = errors.New("缺少鉴权令牌")
