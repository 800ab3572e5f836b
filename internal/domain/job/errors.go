package job

import appErrors "job-board/pkg/errors"

var ErrJobNotFound = appErrors.ErrJobNotFound
