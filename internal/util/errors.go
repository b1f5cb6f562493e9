package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrModuleNotFound   = errors.New("module not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrInvalidVideoExt  = errors.New("invalid video file extension")
	ErrNoCheckpoint     = errors.New("module has no checkpoint quiz")
	ErrAnswerCountWrong = errors.New("answer count does not match question count")
)
