package suite

// dslSource builds the test/describe surface handed to a suite
// callback. The functions are plain JS so files can treat them like any
// other test DSL; every call delegates to the Go registrar with an
// explicit mode tag.
const dslSource = `(function(reg) {
	function test(description, run, options) {
		reg.test('', description, run, options);
	}
	test.only = function(description, run, options) {
		reg.test('only', description, run, options);
	};
	test.skip = function(description, run, options) {
		reg.test('skip', description, run, options);
	};

	function describe(description, body) {
		reg.describe('', description, body);
	}
	describe.only = function(description, body) {
		reg.describe('only', description, body);
	};
	describe.skip = function(description, body) {
		reg.describe('skip', description, body);
	};

	return {test: test, describe: describe};
})`
