package personnel

const msgEmployeeNumberTaken = "user with this employee number already exists."
