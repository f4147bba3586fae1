package usecase

var AlreadyCovered = (*GenerateUseCase).alreadyCovered
