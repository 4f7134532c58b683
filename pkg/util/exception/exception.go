package exception

import "fmt"

// Block - try, catch and finally blocks for validation style code that
// raises with Throw instead of returning errors at every level
type Block struct {
	Try     func()
	Catch   func(error)
	Finally func()
}

// Throw - raises the error to the nearest Block
func Throw(err error) {
	panic(err)
}

// Do - runs Try; a raised value is handed to Catch, Finally always runs last
func (block Block) Do() {
	if block.Try == nil {
		return
	}
	if block.Finally != nil {
		defer block.Finally()
	}
	if block.Catch != nil {
		defer func() {
			if r := recover(); r != nil {
				block.Catch(toError(r))
			}
		}()
	}
	block.Try()
}

func toError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
